// Package game implements the rock-paper-scissors room state machine.
//
// A Room is not safe for concurrent use. Its owner (the lobby registry)
// serialises every call under one lock.
package game

import (
	"errors"
	"maps"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Status is the lifecycle state of a room.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusReady     Status = "ready"
	StatusCountdown Status = "countdown"
	StatusCapture   Status = "capture"
	StatusResults   Status = "results"
	StatusEmpty     Status = "empty"
)

// MaxPlayers is the number of seats in a human-vs-human room.
const MaxPlayers = 2

var (
	// ErrRoomFull is returned when a player tries to join a room with no free seat.
	ErrRoomFull = errors.New("room full")
	// ErrUnknownPlayer is returned for operations naming a player not in the room.
	ErrUnknownPlayer = errors.New("player not in room")
)

// Move is what a player submitted for the current round.
type Move struct {
	Gesture gesture.Label
	Capture string
}

// Player is a seat in a room. Move is nil until the player submits.
type Player struct {
	ID       string
	Username string
	Ready    bool
	Move     *Move
}

// Room is one match between two humans, or one human and an Opponent.
type Room struct {
	ID        string
	CreatedAt time.Time

	// Opponent is set for AI rooms only.
	Opponent *Opponent

	status   Status
	players  []*Player // join order
	gestures map[string]gesture.Label
	result   *Result
	scores   map[string]int
	round    uint64
}

// NewRoom creates an empty human-vs-human room.
func NewRoom(id string) *Room {
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		status:    StatusWaiting,
		gestures:  make(map[string]gesture.Label),
		scores:    make(map[string]int),
	}
}

// NewAIRoom creates a room whose second seat is held by opp.
func NewAIRoom(id string, opp *Opponent) *Room {
	r := NewRoom(id)
	r.Opponent = opp
	return r
}

// IsAIGame reports whether the room plays against a synthetic opponent.
func (r *Room) IsAIGame() bool {
	return r.Opponent != nil
}

// Capacity returns the number of human seats.
func (r *Room) Capacity() int {
	if r.IsAIGame() {
		return 1
	}
	return MaxPlayers
}

// Len returns the number of seated humans.
func (r *Room) Len() int {
	return len(r.players)
}

// IsFull reports whether every human seat is taken.
func (r *Room) IsFull() bool {
	return len(r.players) >= r.Capacity()
}

// Status returns the room's lifecycle state.
func (r *Room) Status() Status {
	return r.status
}

// SetStatus forces the lifecycle state.
func (r *Room) SetStatus(s Status) {
	r.status = s
}

// Round returns the countdown generation. It changes every time a countdown
// begins, so a stale countdown can tell it has been superseded.
func (r *Room) Round() uint64 {
	return r.round
}

// Result returns the last computed result, nil before the round finishes.
func (r *Room) Result() *Result {
	return r.result
}

// Scores returns a copy of the wins per player id for the room's lifetime.
func (r *Room) Scores() map[string]int {
	return maps.Clone(r.scores)
}

func (r *Room) find(id string) (int, *Player) {
	for i, p := range r.players {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

// Player returns a copy of the seat held by id.
func (r *Room) Player(id string) (Player, bool) {
	_, p := r.find(id)
	if p == nil {
		return Player{}, false
	}
	return *p, true
}

// Has reports whether id holds a seat.
func (r *Room) Has(id string) bool {
	_, p := r.find(id)
	return p != nil
}

// Players returns copies of the seats in join order.
func (r *Room) Players() []Player {
	out := make([]Player, len(r.players))
	for i, p := range r.players {
		out[i] = *p
	}
	return out
}

// Usernames returns the seated players' names in join order.
func (r *Room) Usernames() []string {
	names := make([]string, len(r.players))
	for i, p := range r.players {
		names[i] = p.Username
	}
	return names
}

// AddPlayer seats a player, not ready. Adding a player who is already
// seated is a no-op.
func (r *Room) AddPlayer(id, username string) error {
	if r.Has(id) {
		return nil
	}
	if r.IsFull() {
		return ErrRoomFull
	}

	r.players = append(r.players, &Player{ID: id, Username: username})
	if r.status == StatusEmpty {
		r.status = StatusWaiting
	}
	return nil
}

// RemovePlayer frees the player's seat and drops their gesture. A room left
// with nobody in it becomes StatusEmpty.
func (r *Room) RemovePlayer(id string) {
	i, p := r.find(id)
	if p == nil {
		return
	}

	r.players = append(r.players[:i], r.players[i+1:]...)
	delete(r.gestures, id)

	if len(r.players) == 0 {
		r.status = StatusEmpty
	}
}

// SetReady marks the player ready. It reports false for an unknown player.
func (r *Room) SetReady(id string) bool {
	_, p := r.find(id)
	if p == nil {
		return false
	}
	p.Ready = true
	return true
}

// AllReady reports whether every seat is taken and every player is ready.
// The synthetic opponent is always ready.
func (r *Room) AllReady() bool {
	if len(r.players) != r.Capacity() {
		return false
	}
	for _, p := range r.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// BeginCountdown moves a waiting or ready room into StatusCountdown and
// returns the new round generation. It reports false if the room is in any
// other state.
func (r *Room) BeginCountdown() (uint64, bool) {
	if r.status != StatusWaiting && r.status != StatusReady {
		return r.round, false
	}
	r.round++
	r.status = StatusCountdown
	return r.round, true
}

// SubmitGesture stores the player's move for this round. In an AI room the
// opponent moves at the first submission. Once every expected gesture is
// present the winner is determined and the Result returned; otherwise the
// Result is nil.
//
// Submissions after the round has finished, or to an empty room, are ignored.
func (r *Room) SubmitGesture(id string, label gesture.Label, capture string) (*Result, error) {
	if r.status == StatusResults || r.status == StatusEmpty {
		return nil, nil
	}

	_, p := r.find(id)
	if p == nil {
		return nil, ErrUnknownPlayer
	}

	p.Move = &Move{Gesture: label, Capture: capture}
	r.gestures[id] = label

	if r.IsAIGame() {
		if _, ok := r.gestures[AIPlayerID]; !ok {
			r.gestures[AIPlayerID] = r.Opponent.MakeMove()
		}
	}

	if len(r.gestures) < 2 {
		return nil, nil
	}
	return r.DetermineWinner(), nil
}

// DetermineWinner computes the round result from the stored gestures and
// moves the room to StatusResults. It returns nil, changing nothing, unless
// exactly the expected players are seated.
func (r *Room) DetermineWinner() *Result {
	if len(r.players) != r.Capacity() {
		return nil
	}

	first := r.side(r.players[0])
	var second PlayerResult
	if r.IsAIGame() {
		second = PlayerResult{
			ID:       AIPlayerID,
			Username: r.Opponent.Name,
			Gesture:  r.gestureOf(AIPlayerID),
		}
	} else {
		second = r.side(r.players[1])
	}

	res := newResult(first, second)
	if res.Winner != "" {
		r.scores[res.Winner]++
	}
	res.Scores = r.Scores()

	r.result = res
	r.status = StatusResults
	return res
}

func (r *Room) gestureOf(id string) gesture.Label {
	if l, ok := r.gestures[id]; ok {
		return l
	}
	return gesture.Unknown
}

func (r *Room) side(p *Player) PlayerResult {
	pr := PlayerResult{ID: p.ID, Username: p.Username, Gesture: r.gestureOf(p.ID)}
	if p.Move != nil {
		pr.Capture = p.Move.Capture
	}
	return pr
}

// Reset clears the round: gestures, captures, the result, every ready flag
// and the opponent's move. The room goes back to StatusWaiting, or stays
// StatusEmpty if nobody is seated. Scores are kept.
func (r *Room) Reset() {
	clear(r.gestures)
	for _, p := range r.players {
		p.Ready = false
		p.Move = nil
	}
	r.result = nil
	if r.Opponent != nil {
		r.Opponent.Reset()
	}

	if len(r.players) == 0 {
		r.status = StatusEmpty
		return
	}
	r.status = StatusWaiting
}

// Summary is the lobby listing entry for a room.
type Summary struct {
	ID         string `json:"id"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
}

// Summary returns the room's lobby listing entry.
func (r *Room) Summary() Summary {
	return Summary{ID: r.ID, Players: len(r.players), MaxPlayers: MaxPlayers}
}

// Snapshot is a read-only view of a room.
type Snapshot struct {
	ID        string         `json:"id"`
	Status    Status         `json:"status"`
	IsAIGame  bool           `json:"is_ai_game"`
	CreatedAt time.Time      `json:"created_at"`
	Players   []PlayerView   `json:"players"`
	Scores    map[string]int `json:"scores"`
}

// PlayerView is a player as seen from outside the room.
type PlayerView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Ready     bool   `json:"ready"`
	Submitted bool   `json:"submitted"`
}

// Snapshot copies the room's observable state.
func (r *Room) Snapshot() Snapshot {
	s := Snapshot{
		ID:        r.ID,
		Status:    r.status,
		IsAIGame:  r.IsAIGame(),
		CreatedAt: r.CreatedAt,
		Players:   make([]PlayerView, len(r.players)),
		Scores:    r.Scores(),
	}
	for i, p := range r.players {
		s.Players[i] = PlayerView{ID: p.ID, Username: p.Username, Ready: p.Ready, Submitted: p.Move != nil}
	}
	return s
}
