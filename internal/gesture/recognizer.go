package gesture

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
)

// HandInfo is the classification of one detected hand.
type HandInfo struct {
	Handedness string  `json:"handedness"`
	Score      float64 `json:"score"`
	Info
}

// Recognizer runs a hand-tracking provider and classifies what it finds.
// It is the single classification path shared by the game and practice modes.
type Recognizer struct {
	detector      detector.Detector
	minConfidence float64
}

// NewRecognizer creates a Recognizer. Hands scoring below minConfidence are ignored.
func NewRecognizer(d detector.Detector, minConfidence float64) *Recognizer {
	return &Recognizer{detector: d, minConfidence: minConfidence}
}

func (r *Recognizer) hands(frame *gocv.Mat) ([]detector.Hand, error) {
	hands, err := r.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}
	return detector.FilterByConfidence(hands, r.minConfidence), nil
}

// Classify returns the rock-paper-scissors label of the first confident hand.
// No hand gives Unknown.
func (r *Recognizer) Classify(frame *gocv.Mat) (Label, error) {
	hands, err := r.hands(frame)
	if err != nil {
		return Unknown, err
	}
	if len(hands) == 0 {
		return Unknown, nil
	}
	return RecognizeRockPaperScissors(hands[0].Landmarks), nil
}

// Describe returns full gesture info for every confident hand in the frame.
func (r *Recognizer) Describe(frame *gocv.Mat) ([]HandInfo, error) {
	hands, err := r.hands(frame)
	if err != nil {
		return nil, err
	}

	infos := make([]HandInfo, 0, len(hands))
	for _, h := range hands {
		infos = append(infos, HandInfo{
			Handedness: h.Handedness,
			Score:      h.Score,
			Info:       Describe(h.Landmarks),
		})
	}
	return infos, nil
}

// ClassifyDataURL decodes a client capture and classifies it. It returns the
// label and the raw base64 body of the capture. On failure the label is
// Unknown and the error says why; the capture body is still returned when
// decoding succeeded.
func (r *Recognizer) ClassifyDataURL(dataURL string) (Label, string, error) {
	payload, err := capture.DecodeDataURL(dataURL)
	if err != nil {
		return Unknown, "", err
	}
	defer payload.Close()

	label, err := r.Classify(&payload.Frame)
	return label, payload.Base64, err
}

// DescribeDataURL decodes a client capture and describes every hand in it.
func (r *Recognizer) DescribeDataURL(dataURL string) ([]HandInfo, error) {
	payload, err := capture.DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	defer payload.Close()

	return r.Describe(&payload.Frame)
}
