// Package detector provides hand-tracking provider interfaces and landmark types for gesture recognition.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21

	// PalmReference is the landmark used as the palm center by the classifier.
	PalmReference = MiddleMCP
)

// Point is a landmark position in image pixel space.
// Y grows downward, so a smaller Y is higher on screen.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Hand is one hand reported by a hand-tracking provider.
// Landmarks normally holds NumLandmarks points; consumers treat any other
// length as "no data".
type Hand struct {
	Landmarks  []Point `json:"landmarks"`
	Handedness string  `json:"handedness"` // "Left" or "Right"
	Score      float64 `json:"score"`
}

// Complete reports whether the hand carries a full landmark set.
func (h Hand) Complete() bool {
	return len(h.Landmarks) == NumLandmarks
}

// FilterByConfidence returns the hands whose score is at least min.
// The confidence policy lives with the caller; providers report every hand they see.
func FilterByConfidence(hands []Hand, min float64) []Hand {
	var kept []Hand
	for _, h := range hands {
		if h.Score >= min {
			kept = append(kept, h)
		}
	}
	return kept
}
