// Package api provides the read-only HTTP API over the lobby.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/game"
)

// RoomSource is the part of the lobby registry the API reads.
type RoomSource interface {
	ListAvailableRooms() []game.Summary
	Snapshot(roomID string) (game.Snapshot, bool)
}

// RoomsHandler serves room listings and snapshots.
type RoomsHandler struct {
	rooms RoomSource
}

// NewRoomsHandler creates a RoomsHandler over rooms.
func NewRoomsHandler(rooms RoomSource) *RoomsHandler {
	return &RoomsHandler{rooms: rooms}
}

type listRoomsResponse struct {
	AvailableRooms []game.Summary `json:"available_rooms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// List handles GET /api/rooms and returns the rooms a player can join.
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms := h.rooms.ListAvailableRooms()
	if rooms == nil {
		rooms = []game.Summary{}
	}
	writeJSON(w, http.StatusOK, listRoomsResponse{AvailableRooms: rooms})
}

// Get handles GET /api/rooms/{id} and returns the room's snapshot.
func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snap, ok := h.rooms.Snapshot(id)
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
