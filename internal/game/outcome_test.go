package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/mudra/internal/gesture"
)

var allLabels = []gesture.Label{gesture.Rock, gesture.Paper, gesture.Scissors, gesture.Unknown}

func TestDecide(t *testing.T) {
	tests := []struct {
		a, b gesture.Label
		want Outcome
	}{
		{gesture.Rock, gesture.Scissors, OutcomeFirst},
		{gesture.Scissors, gesture.Paper, OutcomeFirst},
		{gesture.Paper, gesture.Rock, OutcomeFirst},
		{gesture.Scissors, gesture.Rock, OutcomeSecond},
		{gesture.Paper, gesture.Scissors, OutcomeSecond},
		{gesture.Rock, gesture.Paper, OutcomeSecond},
		{gesture.Rock, gesture.Rock, OutcomeDraw},
		{gesture.Paper, gesture.Paper, OutcomeDraw},
		{gesture.Scissors, gesture.Scissors, OutcomeDraw},
		{gesture.Unknown, gesture.Unknown, OutcomeDraw},
		{gesture.Rock, gesture.Unknown, OutcomeUnrecognized},
		{gesture.Unknown, gesture.Paper, OutcomeUnrecognized},
		{gesture.Scissors, "", OutcomeUnrecognized},
	}

	for _, tt := range tests {
		t.Run(string(tt.a)+" vs "+string(tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.a, tt.b))
		})
	}
}

// Swapping the players never changes who wins.
func TestDecide_Symmetric(t *testing.T) {
	mirror := map[Outcome]Outcome{
		OutcomeFirst:        OutcomeSecond,
		OutcomeSecond:       OutcomeFirst,
		OutcomeDraw:         OutcomeDraw,
		OutcomeUnrecognized: OutcomeUnrecognized,
	}

	for _, a := range allLabels {
		for _, b := range allLabels {
			assert.Equal(t, mirror[Decide(a, b)], Decide(b, a), "%s vs %s", a, b)

			ab := newResult(PlayerResult{ID: "x", Username: "X", Gesture: a}, PlayerResult{ID: "y", Username: "Y", Gesture: b})
			ba := newResult(PlayerResult{ID: "y", Username: "Y", Gesture: b}, PlayerResult{ID: "x", Username: "X", Gesture: a})
			assert.Equal(t, ab.Winner, ba.Winner, "%s vs %s", a, b)
			assert.Equal(t, ab.Message, ba.Message, "%s vs %s", a, b)
		}
	}
}

func TestNewResult_Messages(t *testing.T) {
	alice := PlayerResult{ID: "p1", Username: "alice"}
	bob := PlayerResult{ID: "p2", Username: "bob"}

	alice.Gesture, bob.Gesture = gesture.Paper, gesture.Scissors
	res := newResult(alice, bob)
	assert.Equal(t, "bob wins!", res.Message)
	assert.Equal(t, "p2", res.Winner)
	assert.Equal(t, "bob", res.WinnerName)

	alice.Gesture, bob.Gesture = gesture.Rock, gesture.Rock
	res = newResult(alice, bob)
	assert.Equal(t, "Draw!", res.Message)
	assert.Empty(t, res.Winner)

	alice.Gesture, bob.Gesture = gesture.Unknown, gesture.Rock
	res = newResult(alice, bob)
	assert.Equal(t, "Gesture not recognized", res.Message)
	assert.Empty(t, res.Winner)
	assert.Empty(t, res.WinnerName)
}

func TestOpponent(t *testing.T) {
	opp := NewOpponent("Bot", rand.NewPCG(42, 1024))
	assert.False(t, opp.Ready())
	assert.Empty(t, opp.Move())

	seen := make(map[gesture.Label]int)
	for range 300 {
		move := opp.MakeMove()
		assert.Contains(t, gesture.Moves, move)
		assert.Equal(t, move, opp.Move())
		assert.True(t, opp.Ready())
		seen[move]++
	}
	assert.Len(t, seen, 3, "every move should come up in 300 draws")

	opp.Reset()
	assert.False(t, opp.Ready())
	assert.Empty(t, opp.Move())
}

func TestOpponent_GlobalSource(t *testing.T) {
	opp := NewOpponent("Bot", nil)
	assert.Contains(t, gesture.Moves, opp.MakeMove())
}
