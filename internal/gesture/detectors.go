package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Direction is where a pointing index finger aims, in screen terms.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
)

// Thumbs is the result of DetectThumbsUpDown.
type Thumbs string

const (
	ThumbsNone Thumbs = ""
	ThumbsUp   Thumbs = "thumbs_up"
	ThumbsDown Thumbs = "thumbs_down"
)

// DetectPointing reports whether only the index finger is raised, and the
// dominant axis direction from its knuckle to its tip.
func DetectPointing(landmarks []detector.Point) (bool, Direction) {
	count, status := CountFingers(landmarks)
	if count != 1 || !status[Index] {
		return false, DirectionNone
	}

	tip := landmarks[detector.IndexTip]
	mcp := landmarks[detector.IndexMCP]
	dx := tip.X - mcp.X
	dy := tip.Y - mcp.Y

	if abs(dx) > abs(dy) {
		if dx > 0 {
			return true, DirectionRight
		}
		return true, DirectionLeft
	}
	if dy < 0 {
		return true, DirectionUp
	}
	return true, DirectionDown
}

// DetectThumbsUpDown reports a lone raised thumb pointing clearly up or down.
func DetectThumbsUpDown(landmarks []detector.Point) Thumbs {
	count, status := CountFingers(landmarks)
	if count != 1 || !status[Thumb] {
		return ThumbsNone
	}

	tip := landmarks[detector.ThumbTip]
	mcp := landmarks[detector.ThumbMCP]

	switch {
	case tip.Y < mcp.Y-thumbsVerticalDelta:
		return ThumbsUp
	case tip.Y > mcp.Y+thumbsVerticalDelta:
		return ThumbsDown
	}
	return ThumbsNone
}

// DetectPeaceSign reports a V formed by the index and middle fingers.
// It is independent of RecognizeRockPaperScissors: the same hand may be both
// a peace sign and scissors.
func DetectPeaceSign(landmarks []detector.Point) bool {
	count, status := CountFingers(landmarks)
	if count < 2 || !status[Index] || !status[Middle] {
		return false
	}

	spread := detector.Distance(landmarks[detector.IndexTip], landmarks[detector.MiddleTip])
	return spread > peaceMinSpread
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
