// Package protocol defines the realtime event contract between browser
// clients and the game server.
//
// Every frame is a JSON envelope {"event": "<name>", "data": {...}}. Client
// events decode into one of a closed set of Request types; server events are
// built with the constructors in events.go.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnknownEvent is returned for an envelope naming an event this server does not handle.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrInvalidPayload is returned when an event's data is malformed or fails validation.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Client event names.
const (
	EventJoinLobby       = "join_lobby"
	EventCreateRoom      = "create_room"
	EventCreateAIGame    = "create_ai_game"
	EventJoinRoomRequest = "join_room_request"
	EventPlayerReady     = "player_ready"
	EventGestureCapture  = "gesture_capture"
	EventPlayAgain       = "play_again"
	EventDisconnect      = "disconnect"
)

// Request is a decoded client event.
type Request interface {
	// Event returns the wire name of the request.
	Event() string
}

// JoinLobby registers the connection under a username.
type JoinLobby struct {
	Username string `json:"username" validate:"required,max=32"`
}

// CreateRoom opens a new two-player room seating the sender.
type CreateRoom struct{}

// CreateAIGame opens a private room against the synthetic opponent.
type CreateAIGame struct{}

// JoinRoomRequest asks for a seat in an existing room.
type JoinRoomRequest struct {
	RoomID string `json:"room_id" validate:"required"`
}

// PlayerReady marks the sender ready for the next round.
type PlayerReady struct{}

// GestureCapture carries a webcam frame as a data URL.
type GestureCapture struct {
	Image string `json:"image" validate:"required"`
}

// PlayAgain resets the sender's room for a new round.
type PlayAgain struct{}

// Disconnect is raised by the transport when a connection closes. Clients
// may also send it to leave explicitly.
type Disconnect struct{}

func (JoinLobby) Event() string       { return EventJoinLobby }
func (CreateRoom) Event() string      { return EventCreateRoom }
func (CreateAIGame) Event() string    { return EventCreateAIGame }
func (JoinRoomRequest) Event() string { return EventJoinRoomRequest }
func (PlayerReady) Event() string     { return EventPlayerReady }
func (GestureCapture) Event() string  { return EventGestureCapture }
func (PlayAgain) Event() string       { return EventPlayAgain }
func (Disconnect) Event() string      { return EventDisconnect }

// envelope is the JSON frame shared by both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses one client frame into a Request.
func Decode(raw []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch env.Event {
	case EventJoinLobby:
		return decodeData[JoinLobby](env)
	case EventCreateRoom:
		return CreateRoom{}, nil
	case EventCreateAIGame:
		return CreateAIGame{}, nil
	case EventJoinRoomRequest:
		return decodeData[JoinRoomRequest](env)
	case EventPlayerReady:
		return PlayerReady{}, nil
	case EventGestureCapture:
		return decodeData[GestureCapture](env)
	case EventPlayAgain:
		return PlayAgain{}, nil
	case EventDisconnect:
		return Disconnect{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
}

func decodeData[T Request](env envelope) (Request, error) {
	var req T
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: %s: missing data", ErrInvalidPayload, env.Event)
	}
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, env.Event, err)
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, env.Event, err)
	}
	return req, nil
}

// Encode builds a client frame for req. It is the inverse of Decode and is
// used by Go clients and tests.
func Encode(req Request) ([]byte, error) {
	env := struct {
		Event string  `json:"event"`
		Data  Request `json:"data"`
	}{req.Event(), req}
	return json.Marshal(env)
}
