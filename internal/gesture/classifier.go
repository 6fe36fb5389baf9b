// Package gesture classifies hand poses from pixel-space landmarks.
//
// Every function here is pure: the same landmarks always give the same
// answer. A landmark set that does not hold exactly 21 points is treated as
// "no data" and yields the neutral result, never an error.
package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Label is a rock-paper-scissors verdict.
type Label string

const (
	Rock     Label = "rock"
	Paper    Label = "paper"
	Scissors Label = "scissors"
	Unknown  Label = "unknown"
)

// Moves lists the playable labels.
var Moves = []Label{Rock, Paper, Scissors}

// ParseLabel maps s to a Label. Anything that is not a playable move is Unknown.
func ParseLabel(s string) Label {
	switch l := Label(s); l {
	case Rock, Paper, Scissors:
		return l
	}
	return Unknown
}

// Finger positions inside FingerStatus.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
)

// FingerStatus holds one up/down flag per finger, thumb first.
type FingerStatus [5]bool

// Count returns the number of raised fingers.
func (s FingerStatus) Count() int {
	n := 0
	for _, up := range s {
		if up {
			n++
		}
	}
	return n
}

// Pixel thresholds, tuned against landmarks at the camera's native resolution.
const (
	thumbExtensionRatio = 1.2
	fingerLiftMargin    = 10 // tip must clear the PIP by this much
	fistRadius          = 60
	scissorsLiftMargin  = 10
	scissorsFoldMargin  = 40
	scissorsMinSpread   = 20
	peaceMinSpread      = 35
	thumbsVerticalDelta = 30
)

// fingers maps each non-thumb finger to its tip, PIP and MCP landmarks.
var fingers = [4]struct{ tip, pip, mcp int }{
	{detector.IndexTip, detector.IndexPIP, detector.IndexMCP},
	{detector.MiddleTip, detector.MiddlePIP, detector.MiddleMCP},
	{detector.RingTip, detector.RingPIP, detector.RingMCP},
	{detector.PinkyTip, detector.PinkyPIP, detector.PinkyMCP},
}

func valid(landmarks []detector.Point) bool {
	return len(landmarks) == detector.NumLandmarks
}

// CountFingers returns how many fingers are raised and which ones.
func CountFingers(landmarks []detector.Point) (int, FingerStatus) {
	var status FingerStatus
	if !valid(landmarks) {
		return 0, status
	}

	status[Thumb] = thumbExtended(
		landmarks[detector.ThumbTip],
		landmarks[detector.ThumbIP],
		landmarks[detector.ThumbMCP],
	)

	for i, f := range fingers {
		tip, pip, mcp := landmarks[f.tip], landmarks[f.pip], landmarks[f.mcp]
		status[Index+i] = tip.Y < pip.Y-fingerLiftMargin && tip.Y < mcp.Y
	}

	return status.Count(), status
}

// thumbExtended compares reach instead of height so a sideways thumb still counts.
func thumbExtended(tip, ip, mcp detector.Point) bool {
	return detector.Distance(tip, mcp) > detector.Distance(ip, mcp)*thumbExtensionRatio
}

// RecognizeRockPaperScissors classifies the hand as rock, paper or scissors.
// Candidates picked by finger count must pass a geometric check; anything
// else is Unknown.
func RecognizeRockPaperScissors(landmarks []detector.Point) Label {
	if !valid(landmarks) {
		return Unknown
	}

	count, status := CountFingers(landmarks)

	switch {
	case count <= 1:
		if isClosedFist(landmarks) {
			return Rock
		}
	case count >= 4:
		if isOpenHand(status) {
			return Paper
		}
	default:
		if status[Index] && status[Middle] && isScissors(landmarks) {
			return Scissors
		}
	}

	return Unknown
}

// isClosedFist reports whether at least three of the four fingertips sit near the palm.
func isClosedFist(landmarks []detector.Point) bool {
	palm := landmarks[detector.PalmReference]

	near := 0
	for _, f := range fingers {
		if detector.Distance(landmarks[f.tip], palm) < fistRadius {
			near++
		}
	}
	return near >= 3
}

func isOpenHand(status FingerStatus) bool {
	return status.Count() >= 4
}

// isScissors checks for index and middle raised above the palm and spread
// apart, with ring and pinky folded down.
func isScissors(landmarks []detector.Point) bool {
	palmY := landmarks[detector.PalmReference].Y
	index := landmarks[detector.IndexTip]
	middle := landmarks[detector.MiddleTip]

	indexUp := index.Y < palmY-scissorsLiftMargin
	middleUp := middle.Y < palmY-scissorsLiftMargin
	ringFolded := landmarks[detector.RingTip].Y > palmY-scissorsFoldMargin
	pinkyFolded := landmarks[detector.PinkyTip].Y > palmY-scissorsFoldMargin
	spread := detector.Distance(index, middle) > scissorsMinSpread

	return indexUp && middleUp && ringFolded && pinkyFolded && spread
}
