// Package lobby owns every live session and room and sequences players
// through the game.
//
// All state lives in one Registry guarded by a single mutex. Events are
// emitted while the lock is held, so clients see them in the same order as
// the state changes that caused them. The Broadcaster must therefore never
// block.
package lobby

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/game"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/monitor"
	"github.com/ayusman/mudra/internal/protocol"
)

var (
	// ErrNotRegistered is returned for events from a connection that has not joined the lobby.
	ErrNotRegistered = errors.New("connection not registered")
	// ErrRoomNotFound is returned when a room id does not name a live room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrNotInRoom is returned for room events from a player without a room.
	ErrNotInRoom = errors.New("player not in a room")
)

// Broadcaster delivers events to connections. Implementations must not block.
type Broadcaster interface {
	// Send delivers e to one connection.
	Send(connID string, e protocol.Event)
	// SendAll delivers e to every connection.
	SendAll(e protocol.Event)
}

// Classifier turns a client capture into a gesture label and the raw
// capture body.
type Classifier interface {
	ClassifyDataURL(dataURL string) (gesture.Label, string, error)
}

// Config tunes the game flow.
type Config struct {
	// CountdownInterval is the pause between countdown ticks.
	CountdownInterval time.Duration

	// AutoStartAIRounds restarts the countdown straight away when a player
	// asks for another round against the AI.
	AutoStartAIRounds bool

	// AIName is the synthetic opponent's display name.
	AIName string

	// Rand, if set, seeds the synthetic opponents' moves.
	Rand rand.Source
}

// DefaultConfig returns the standard game timings.
func DefaultConfig() Config {
	return Config{
		CountdownInterval: time.Second,
		AutoStartAIRounds: true,
		AIName:            "🤖 AI",
	}
}

// Session is what the registry knows about one connection.
type Session struct {
	ConnID   string
	PlayerID string
	Username string
	RoomID   string // empty when not seated
}

// Stats is a point-in-time count of registry contents.
type Stats struct {
	Players int `json:"players"`
	Rooms   int `json:"rooms"`
}

// Registry maps connections to players and owns every room.
type Registry struct {
	cfg        Config
	out        Broadcaster
	classifier Classifier
	monitor    *monitor.Monitor
	log        *zap.SugaredLogger

	mu       sync.Mutex
	sessions map[string]*Session   // conn id -> session
	rooms    map[string]*game.Room // room id -> room

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Registry. A nil logger discards logs; a nil monitor records nothing.
func New(cfg Config, out Broadcaster, classifier Classifier, log *zap.SugaredLogger, mon *monitor.Monitor) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.CountdownInterval <= 0 {
		cfg.CountdownInterval = time.Second
	}
	if cfg.AIName == "" {
		cfg.AIName = DefaultConfig().AIName
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		cfg:        cfg,
		out:        out,
		classifier: classifier,
		monitor:    mon,
		log:        log,
		sessions:   make(map[string]*Session),
		rooms:      make(map[string]*game.Room),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Close stops every running countdown and waits for them to exit.
func (r *Registry) Close() {
	r.cancel()
	r.wg.Wait()
}

// JoinLobby registers the connection under username and replies with
// lobby_joined. Joining again with the same username keeps the player id;
// a different username leaves any room and starts a new identity.
func (r *Registry) JoinLobby(connID, username string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if ok && sess.Username == username {
		r.log.Debugw("lobby re-join", "conn", connID, "player", sess.PlayerID)
	} else {
		if ok && sess.RoomID != "" {
			r.leaveRoomLocked(sess)
			r.out.SendAll(protocol.RoomListUpdated(r.availableRoomsLocked()))
		}
		sess = &Session{ConnID: connID, PlayerID: uuid.NewString(), Username: username}
		r.sessions[connID] = sess
		r.log.Infow("player joined lobby", "conn", connID, "player", sess.PlayerID, "username", username)
	}

	r.out.Send(connID, protocol.LobbyJoined(sess.PlayerID, sess.Username, r.availableRoomsLocked()))
	r.updateGaugesLocked()
	return sess.PlayerID
}

// CreateRoom opens a room seating the connection's player and returns its
// id. An AI room gets its opponent immediately and starts out ready. A
// player already seated elsewhere leaves that room first.
func (r *Registry) CreateRoom(connID string, isAI bool) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return "", ErrNotRegistered
	}
	r.leaveRoomLocked(sess)

	id := r.newRoomIDLocked()
	var room *game.Room
	if isAI {
		room = game.NewAIRoom(id, game.NewOpponent(r.cfg.AIName, r.cfg.Rand))
	} else {
		room = game.NewRoom(id)
	}
	if err := room.AddPlayer(sess.PlayerID, sess.Username); err != nil {
		return "", err
	}
	r.rooms[id] = room
	sess.RoomID = id

	if isAI {
		room.SetStatus(game.StatusReady)
		r.out.Send(connID, protocol.AIGameCreated(id, r.cfg.AIName, sess.Username))
	} else {
		r.out.Send(connID, protocol.RoomCreated(id))
	}
	r.out.SendAll(protocol.RoomListUpdated(r.availableRoomsLocked()))

	r.log.Infow("room created", "room", id, "player", sess.PlayerID, "ai", isAI)
	r.updateGaugesLocked()
	return id, nil
}

// JoinRoom seats the connection's player in roomID. Failures are reported
// to the connection as join_failed and returned. Joining a room the player
// already sits in succeeds without changes.
func (r *Registry) JoinRoom(connID, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return ErrNotRegistered
	}

	room, ok := r.rooms[roomID]
	if !ok {
		r.out.Send(connID, protocol.JoinFailed(protocol.ReasonRoomNotFound))
		return ErrRoomNotFound
	}

	rejoin := room.Has(sess.PlayerID)
	if !rejoin {
		if room.IsFull() {
			r.out.Send(connID, protocol.JoinFailed(protocol.ReasonRoomFull))
			return game.ErrRoomFull
		}
		r.leaveRoomLocked(sess)
		if err := room.AddPlayer(sess.PlayerID, sess.Username); err != nil {
			return err
		}
		sess.RoomID = roomID
		r.log.Infow("player joined room", "room", roomID, "player", sess.PlayerID)
	}

	r.out.Send(connID, protocol.RoomJoined(roomID))

	waiting := room.Status() == game.StatusWaiting || room.Status() == game.StatusReady
	switch {
	case room.IsAIGame():
		if waiting {
			room.SetStatus(game.StatusReady)
		}
		r.broadcastRoomLocked(roomID, protocol.AIRoomReady(sess.Username, room.Opponent.Name))
	case room.IsFull():
		if waiting {
			room.SetStatus(game.StatusReady)
		}
		r.broadcastRoomLocked(roomID, protocol.RoomFull(room.Usernames()))
	}

	if !rejoin {
		r.out.SendAll(protocol.RoomListUpdated(r.availableRoomsLocked()))
	}
	r.updateGaugesLocked()
	return nil
}

// PlayerReady marks the connection's player ready and starts the countdown
// once everyone in the room is.
func (r *Registry) PlayerReady(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, room, err := r.roomOfLocked(connID)
	if err != nil {
		return err
	}

	room.SetReady(sess.PlayerID)
	if room.AllReady() {
		r.startCountdownLocked(room)
	}
	return nil
}

// SubmitCapture classifies a capture and stores it as the player's move,
// broadcasting game_results when the round completes. Classification runs
// without the registry lock.
func (r *Registry) SubmitCapture(connID, image string) error {
	r.mu.Lock()
	sess, room, err := r.roomOfLocked(connID)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if s := room.Status(); s == game.StatusResults || s == game.StatusEmpty {
		r.mu.Unlock()
		return nil
	}
	playerID := sess.PlayerID
	gen, status := room.Round(), room.Status()
	r.mu.Unlock()

	label, body, err := r.classifier.ClassifyDataURL(image)
	if err != nil {
		r.log.Warnw("capture classification failed", "room", room.ID, "player", playerID, "error", err)
		label = gesture.Unknown
	}
	r.monitor.IncGesturesClassified(string(label))

	r.mu.Lock()
	defer r.mu.Unlock()

	// The room may have been deleted or the player may have left while we were classifying.
	if r.rooms[room.ID] != room {
		return ErrRoomNotFound
	}
	// A reset or a new countdown in the meantime makes this capture stale.
	if room.Round() != gen || room.Status() != status {
		r.log.Debugw("stale capture dropped", "room", room.ID, "player", playerID, "gesture", label)
		return nil
	}

	res, err := room.SubmitGesture(playerID, label, body)
	if err != nil {
		return err
	}
	r.log.Infow("gesture classified", "room", room.ID, "player", playerID, "gesture", label)

	if res != nil {
		r.log.Infow("round finished", "room", room.ID, "outcome", res.Outcome, "winner", res.Winner)
		r.monitor.IncRoundsCompleted(string(res.Outcome))
		r.broadcastRoomLocked(room.ID, protocol.GameResults(res))
	}
	return nil
}

// PlayAgain resets the player's room. In an AI room with AutoStartAIRounds
// the player is marked ready and the countdown restarts immediately.
func (r *Registry) PlayAgain(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, room, err := r.roomOfLocked(connID)
	if err != nil {
		return err
	}

	room.Reset()

	autoStart := room.IsAIGame() && r.cfg.AutoStartAIRounds
	if autoStart {
		room.SetReady(sess.PlayerID)
		r.startCountdownLocked(room)
	}

	r.broadcastRoomLocked(room.ID, protocol.RoundReset(room.IsAIGame(), room.Status(), autoStart))
	return nil
}

// Disconnect removes the connection's player from its room, deleting the
// room if it empties, and forgets the connection.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return
	}

	if sess.RoomID != "" {
		r.leaveRoomLocked(sess)
		r.out.SendAll(protocol.RoomListUpdated(r.availableRoomsLocked()))
	}

	delete(r.sessions, connID)
	r.log.Infow("player disconnected", "conn", connID, "player", sess.PlayerID)
	r.updateGaugesLocked()
}

// ListAvailableRooms returns joinable rooms: not full, not empty and not AI
// rooms, ordered by id (creation order).
func (r *Registry) ListAvailableRooms() []game.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.availableRoomsLocked()
}

// Snapshot returns a copy of a room's state.
func (r *Registry) Snapshot(roomID string) (game.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return game.Snapshot{}, false
	}
	return room.Snapshot(), true
}

// Session returns a copy of the connection's session.
func (r *Registry) Session(connID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Stats counts registered players and live rooms.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{Players: len(r.sessions), Rooms: len(r.rooms)}
}

func (r *Registry) availableRoomsLocked() []game.Summary {
	list := make([]game.Summary, 0, len(r.rooms))
	for _, room := range r.rooms {
		if room.IsAIGame() || room.IsFull() || room.Status() == game.StatusEmpty {
			continue
		}
		list = append(list, room.Summary())
	}
	slices.SortFunc(list, func(a, b game.Summary) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return list
}

func (r *Registry) roomOfLocked(connID string) (*Session, *game.Room, error) {
	sess, ok := r.sessions[connID]
	if !ok {
		return nil, nil, ErrNotRegistered
	}
	if sess.RoomID == "" {
		return sess, nil, ErrNotInRoom
	}
	room, ok := r.rooms[sess.RoomID]
	if !ok {
		sess.RoomID = ""
		return sess, nil, ErrRoomNotFound
	}
	return sess, room, nil
}

// leaveRoomLocked takes the session's player out of its room. An emptied
// room is deleted; otherwise the remaining players get player_left and the
// room goes back to waiting, dropping any round in progress or finished.
func (r *Registry) leaveRoomLocked(sess *Session) {
	roomID := sess.RoomID
	if roomID == "" {
		return
	}
	sess.RoomID = ""

	room, ok := r.rooms[roomID]
	if !ok {
		return
	}

	room.RemovePlayer(sess.PlayerID)
	if room.Status() == game.StatusEmpty {
		delete(r.rooms, roomID)
		r.log.Infow("room deleted", "room", roomID)
		return
	}

	if room.Status() != game.StatusWaiting {
		room.Reset()
	}
	r.broadcastRoomLocked(roomID, protocol.PlayerLeft(sess.Username))
	r.log.Infow("player left room", "room", roomID, "player", sess.PlayerID)
}

func (r *Registry) broadcastRoomLocked(roomID string, e protocol.Event) {
	for connID, sess := range r.sessions {
		if sess.RoomID == roomID {
			r.out.Send(connID, e)
		}
	}
}

func (r *Registry) newRoomIDLocked() string {
	for {
		id := ulid.Make().String()
		if _, taken := r.rooms[id]; !taken {
			return id
		}
	}
}

func (r *Registry) updateGaugesLocked() {
	r.monitor.SetOnlinePlayers(len(r.sessions))
	r.monitor.SetActiveRooms(len(r.rooms))
}
