package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand-tracking providers.
type Detector interface {
	// Detect analyzes a frame and returns every hand found in it, with
	// landmarks in the frame's pixel space.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum score a hand needs to be classified (0.0-1.0).
	MinConfidence float64

	// ScriptPath points at mediapipe_service.py. Empty means search the usual locations.
	ScriptPath string

	// PythonPath is the interpreter used to run the script. Empty means search for a venv, then python3.
	PythonPath string

	// IdleTimeout shuts the provider process down after this long without a frame.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:      1,
		MinConfidence: 0.8,
		IdleTimeout:   30 * time.Second,
	}
}
