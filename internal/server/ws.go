package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/ayusman/mudra/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = time.Minute
	pingPeriod = pongWait * 9 / 10

	// maxMessageSize bounds one inbound frame; captures are JPEG data URLs.
	maxMessageSize = 4 << 20
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleGameSocket serves one player's game connection. Inbound events go
// through the lobby registry; outbound events arrive via the hub.
func (s *Server) handleGameSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	c := s.config.Hub.register(id)
	s.log.Infow("connection opened", "conn", id, "remote", r.RemoteAddr)

	go s.writePump(conn, c)
	s.readPump(conn, id)

	s.config.Registry.Disconnect(id)
	s.config.Hub.unregister(id)
	s.log.Infow("connection closed", "conn", id)
}

func (s *Server) readPump(conn *websocket.Conn, id string) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	limiter := s.newLimiter()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debugw("read failed", "conn", id, "error", err)
			}
			return
		}

		if !limiter.Allow() {
			s.log.Warnw("event rate limited", "conn", id)
			continue
		}

		req, err := protocol.Decode(data)
		if err != nil {
			s.log.Warnw("decode event", "conn", id, "error", err)
			s.config.Hub.Send(id, protocol.Error(err.Error()))
			continue
		}

		if err := s.config.Registry.Dispatch(id, req); err != nil {
			s.log.Debugw("event rejected", "conn", id, "event", req.Event(), "error", err)
		}
	}
}

// writePump is the only writer on conn. It exits when the hub closes the
// queue or a write fails, and closes the socket either way.
func (s *Server) writePump(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(s.config.MaxEventsPerSecond), s.config.EventBurst)
}
