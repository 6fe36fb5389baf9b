package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
)

// Describer classifies every confident hand in a captured frame.
type Describer interface {
	DescribeDataURL(dataURL string) ([]gesture.HandInfo, error)
}

type practiceFrame struct {
	Image string `json:"image"`
}

type practiceReply struct {
	Hands     []gesture.HandInfo `json:"hands"`
	Timestamp int64              `json:"timestamp"`
	Error     string             `json:"error,omitempty"`
}

// handlePractice answers each frame a client sends with the full gesture
// description of the hands in it. Nothing is stored.
func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	limiter := s.newLimiter()

	for {
		var frame practiceFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debugw("practice read failed", "error", err)
			}
			return
		}
		if !limiter.Allow() {
			s.log.Warnw("practice frame rate limited", "remote", r.RemoteAddr)
			continue
		}

		reply := practiceReply{Hands: []gesture.HandInfo{}}
		hands, err := s.config.Describer.DescribeDataURL(frame.Image)
		if err != nil {
			s.log.Warnw("practice frame", "error", err)
			reply.Error = err.Error()
		} else if hands != nil {
			reply.Hands = hands
		}
		for _, h := range reply.Hands {
			s.config.Monitor.IncGesturesClassified(string(h.RPS))
		}
		reply.Timestamp = time.Now().UnixMilli()

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}
