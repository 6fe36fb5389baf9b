package lobby

import (
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/protocol"
)

// Dispatch routes one decoded client event to the registry operation that
// handles it. The returned error is for logging; anything the client needs
// to see has already been sent.
func (r *Registry) Dispatch(connID string, req protocol.Request) error {
	start := time.Now()
	defer func() {
		r.monitor.ObserveEventLatency(time.Since(start))
	}()
	r.monitor.IncEventsReceived(req.Event())

	switch req := req.(type) {
	case protocol.JoinLobby:
		r.JoinLobby(connID, req.Username)
		return nil
	case protocol.CreateRoom:
		_, err := r.CreateRoom(connID, false)
		return err
	case protocol.CreateAIGame:
		_, err := r.CreateRoom(connID, true)
		return err
	case protocol.JoinRoomRequest:
		return r.JoinRoom(connID, req.RoomID)
	case protocol.PlayerReady:
		return r.PlayerReady(connID)
	case protocol.GestureCapture:
		return r.SubmitCapture(connID, req.Image)
	case protocol.PlayAgain:
		return r.PlayAgain(connID)
	case protocol.Disconnect:
		r.Disconnect(connID)
		return nil
	}

	return fmt.Errorf("%w: %T", protocol.ErrUnknownEvent, req)
}
