package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

var countNames = map[int]string{
	0: "Fist",
	1: "One",
	2: "Two",
	3: "Three",
	4: "Four",
	5: "Five (open hand)",
}

var labelNames = map[Label]string{
	Rock:     "Rock 🗿",
	Paper:    "Paper 📄",
	Scissors: "Scissors ✂️",
	Unknown:  "Unknown ❓",
}

// Info is everything the classifier can say about one hand.
type Info struct {
	FingerCount    int          `json:"fingers_count"`
	FingerStatus   FingerStatus `json:"finger_status"`
	GestureName    string       `json:"gesture_name"`
	RPS            Label        `json:"rps_gesture"`
	RPSName        string       `json:"rps_name"`
	IsPointing     bool         `json:"is_pointing"`
	PointDirection Direction    `json:"point_direction,omitempty"`
	Thumbs         Thumbs       `json:"thumbs_gesture,omitempty"`
	IsPeaceSign    bool         `json:"is_peace_sign"`
}

// Describe runs every detector over the landmarks.
func Describe(landmarks []detector.Point) Info {
	count, status := CountFingers(landmarks)
	rps := RecognizeRockPaperScissors(landmarks)
	pointing, direction := DetectPointing(landmarks)

	name, ok := countNames[count]
	if !ok || !valid(landmarks) {
		name = "Unknown"
	}

	return Info{
		FingerCount:    count,
		FingerStatus:   status,
		GestureName:    name,
		RPS:            rps,
		RPSName:        DisplayName(rps),
		IsPointing:     pointing,
		PointDirection: direction,
		Thumbs:         DetectThumbsUpDown(landmarks),
		IsPeaceSign:    DetectPeaceSign(landmarks),
	}
}

// DisplayName returns a human readable name for the label.
func DisplayName(l Label) string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return labelNames[Unknown]
}
