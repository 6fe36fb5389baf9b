package game

import (
	"math/rand/v2"

	"github.com/ayusman/mudra/internal/gesture"
)

// AIPlayerID is the reserved player id of the synthetic opponent.
const AIPlayerID = "ai"

// Opponent is a synthetic player that throws a uniformly random move.
// It keeps no history between rounds.
type Opponent struct {
	Name string

	rng   *rand.Rand
	move  gesture.Label
	ready bool
}

// NewOpponent creates an opponent. A nil src uses the global random source.
func NewOpponent(name string, src rand.Source) *Opponent {
	o := &Opponent{Name: name}
	if src != nil {
		o.rng = rand.New(src)
	}
	return o
}

// MakeMove draws a move and marks the opponent ready.
func (o *Opponent) MakeMove() gesture.Label {
	var n int
	if o.rng != nil {
		n = o.rng.IntN(len(gesture.Moves))
	} else {
		n = rand.IntN(len(gesture.Moves))
	}

	o.move = gesture.Moves[n]
	o.ready = true
	return o.move
}

// Move returns the last drawn move, empty if none this round.
func (o *Opponent) Move() gesture.Label {
	return o.move
}

// Ready reports whether the opponent has moved this round.
func (o *Opponent) Ready() bool {
	return o.ready
}

// Reset forgets the current move.
func (o *Opponent) Reset() {
	o.move = ""
	o.ready = false
}
