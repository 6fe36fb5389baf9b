package game

import (
	"fmt"

	"github.com/ayusman/mudra/internal/gesture"
)

// Outcome is the verdict of one round from the first player's point of view.
type Outcome string

const (
	OutcomeFirst        Outcome = "first"
	OutcomeSecond       Outcome = "second"
	OutcomeDraw         Outcome = "draw"
	OutcomeUnrecognized Outcome = "unrecognized"
)

// beats maps each move to the move it defeats.
var beats = map[gesture.Label]gesture.Label{
	gesture.Rock:     gesture.Scissors,
	gesture.Scissors: gesture.Paper,
	gesture.Paper:    gesture.Rock,
}

// Decide applies rock-paper-scissors precedence to a pair of labels.
// Equal labels are a draw, including two unknowns. Any other pair involving
// an unplayable label has no winner.
func Decide(a, b gesture.Label) Outcome {
	if a == b {
		return OutcomeDraw
	}
	if loser, ok := beats[a]; ok && loser == b {
		return OutcomeFirst
	}
	if loser, ok := beats[b]; ok && loser == a {
		return OutcomeSecond
	}
	return OutcomeUnrecognized
}

// PlayerResult is one side of a finished round.
type PlayerResult struct {
	ID       string
	Username string
	Gesture  gesture.Label
	Capture  string
}

// Result is the outcome of a finished round.
type Result struct {
	Outcome Outcome

	// Winner is the winning player's id, empty when nobody won.
	Winner     string
	WinnerName string
	Message    string

	// Players holds both sides in join order, the AI last.
	Players [2]PlayerResult

	// Scores is a copy of the room's win tally after this round.
	Scores map[string]int
}

func newResult(first, second PlayerResult) *Result {
	r := &Result{
		Outcome: Decide(first.Gesture, second.Gesture),
		Players: [2]PlayerResult{first, second},
	}

	switch r.Outcome {
	case OutcomeFirst:
		r.Winner, r.WinnerName = first.ID, first.Username
	case OutcomeSecond:
		r.Winner, r.WinnerName = second.ID, second.Username
	}

	switch r.Outcome {
	case OutcomeDraw:
		r.Message = "Draw!"
	case OutcomeUnrecognized:
		r.Message = "Gesture not recognized"
	default:
		r.Message = fmt.Sprintf("%s wins!", r.WinnerName)
	}

	return r
}
