package protocol

import (
	"encoding/json"

	"github.com/ayusman/mudra/internal/game"
	"github.com/ayusman/mudra/internal/gesture"
)

// Server event names.
const (
	EventLobbyJoined     = "lobby_joined"
	EventRoomCreated     = "room_created"
	EventAIGameCreated   = "ai_game_created"
	EventRoomJoined      = "room_joined"
	EventJoinFailed      = "join_failed"
	EventCountdown       = "countdown"
	EventCaptureGesture  = "capture_gesture"
	EventGameResults     = "game_results"
	EventRoomListUpdated = "room_list_updated"
	EventAIRoomReady     = "ai_room_ready"
	EventRoomFull        = "room_full"
	EventPlayerLeft      = "player_left"
	EventRoundReset      = "round_reset"
	EventError           = "error"
)

// Join failure reasons shown to the requesting client.
const (
	ReasonRoomFull     = "room full"
	ReasonRoomNotFound = "room not found"
)

// CountdownGo is the final countdown value.
const CountdownGo = "GO!"

// Event is one server-to-client message.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Marshal encodes the event as a wire frame.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Payloads of the server events.
type (
	LobbyJoinedData struct {
		PlayerID       string         `json:"player_id"`
		Username       string         `json:"username"`
		AvailableRooms []game.Summary `json:"available_rooms"`
	}

	RoomCreatedData struct {
		RoomID   string `json:"room_id"`
		Redirect bool   `json:"redirect"`
	}

	AIGameCreatedData struct {
		RoomID     string `json:"room_id"`
		Redirect   bool   `json:"redirect"`
		IsAIGame   bool   `json:"is_ai_game"`
		AIName     string `json:"ai_name"`
		PlayerName string `json:"player_name"`
	}

	RoomJoinedData struct {
		RoomID   string `json:"room_id"`
		Redirect bool   `json:"redirect"`
	}

	JoinFailedData struct {
		Reason string `json:"reason"`
	}

	// CountdownData.Count is an int tick or CountdownGo.
	CountdownData struct {
		Count any `json:"count"`
	}

	CaptureGestureData struct{}

	GameResultsData struct {
		// Winner is the winning player id, null on a draw or unrecognized gesture.
		Winner     *string                      `json:"winner"`
		WinnerName string                       `json:"winner_name,omitempty"`
		Result     string                       `json:"result"`
		Players    map[string]PlayerResultsData `json:"players"`
		Scores     map[string]int               `json:"scores"`
	}

	PlayerResultsData struct {
		Username string        `json:"username"`
		Gesture  gesture.Label `json:"gesture"`
		Capture  string        `json:"capture"`
	}

	RoomListUpdatedData struct {
		AvailableRooms []game.Summary `json:"available_rooms"`
	}

	AIRoomReadyData struct {
		PlayerName string `json:"player_name"`
		AIName     string `json:"ai_name"`
	}

	RoomFullData struct {
		Players []string `json:"players"`
	}

	PlayerLeftData struct {
		Username string `json:"username"`
	}

	RoundResetData struct {
		IsAIGame  bool        `json:"is_ai_game"`
		Status    game.Status `json:"status"`
		AutoStart bool        `json:"auto_start"`
	}

	ErrorData struct {
		Message string `json:"message"`
	}
)

func rooms(list []game.Summary) []game.Summary {
	if list == nil {
		return []game.Summary{}
	}
	return list
}

func LobbyJoined(playerID, username string, available []game.Summary) Event {
	return Event{EventLobbyJoined, LobbyJoinedData{playerID, username, rooms(available)}}
}

func RoomCreated(roomID string) Event {
	return Event{EventRoomCreated, RoomCreatedData{RoomID: roomID, Redirect: true}}
}

func AIGameCreated(roomID, aiName, playerName string) Event {
	return Event{EventAIGameCreated, AIGameCreatedData{
		RoomID:     roomID,
		Redirect:   true,
		IsAIGame:   true,
		AIName:     aiName,
		PlayerName: playerName,
	}}
}

func RoomJoined(roomID string) Event {
	return Event{EventRoomJoined, RoomJoinedData{RoomID: roomID, Redirect: true}}
}

func JoinFailed(reason string) Event {
	return Event{EventJoinFailed, JoinFailedData{Reason: reason}}
}

// Countdown builds a tick; count is 3, 2, 1 or CountdownGo.
func Countdown(count any) Event {
	return Event{EventCountdown, CountdownData{Count: count}}
}

func CaptureGesture() Event {
	return Event{EventCaptureGesture, CaptureGestureData{}}
}

// GameResults converts a finished round into its wire form.
func GameResults(res *game.Result) Event {
	data := GameResultsData{
		WinnerName: res.WinnerName,
		Result:     res.Message,
		Players:    make(map[string]PlayerResultsData, len(res.Players)),
		Scores:     res.Scores,
	}
	if res.Winner != "" {
		winner := res.Winner
		data.Winner = &winner
	}
	if data.Scores == nil {
		data.Scores = map[string]int{}
	}
	for _, p := range res.Players {
		data.Players[p.ID] = PlayerResultsData{Username: p.Username, Gesture: p.Gesture, Capture: p.Capture}
	}
	return Event{EventGameResults, data}
}

func RoomListUpdated(available []game.Summary) Event {
	return Event{EventRoomListUpdated, RoomListUpdatedData{AvailableRooms: rooms(available)}}
}

func AIRoomReady(playerName, aiName string) Event {
	return Event{EventAIRoomReady, AIRoomReadyData{PlayerName: playerName, AIName: aiName}}
}

func RoomFull(players []string) Event {
	return Event{EventRoomFull, RoomFullData{Players: players}}
}

func PlayerLeft(username string) Event {
	return Event{EventPlayerLeft, PlayerLeftData{Username: username}}
}

func RoundReset(isAIGame bool, status game.Status, autoStart bool) Event {
	return Event{EventRoundReset, RoundResetData{IsAIGame: isAIGame, Status: status, AutoStart: autoStart}}
}

// Error reports a rejected client frame to its sender.
func Error(message string) Event {
	return Event{EventError, ErrorData{Message: message}}
}
