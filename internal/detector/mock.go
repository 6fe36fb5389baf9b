package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
//
// Results can be scripted per frame width so that several clients sharing one
// detector (for example two players in the same room) get different hands.
type MockDetector struct {
	mu      sync.Mutex
	hands   []Hand
	byWidth map[int][]Hand
	err     error
	calls   int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{byWidth: make(map[int][]Hand)}
}

// SetHands sets the hands that will be returned by Detect for any frame
// without a width-specific script.
func (m *MockDetector) SetHands(hands ...Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetHandsForWidth sets the hands returned for frames that are exactly width pixels wide.
func (m *MockDetector) SetHandsForWidth(width int, hands ...Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byWidth[width] = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if frame != nil && !frame.Empty() {
		if hands, ok := m.byWidth[frame.Cols()]; ok {
			return hands, nil
		}
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// The fixtures below are pixel-space hands on a 640x480 frame, palm reference
// (landmark 9) at (300, 300). Fingers are either curled toward the palm or
// extended straight up; the thumb is either tucked or extended.

func newHand(points []Point) Hand {
	return Hand{Landmarks: points, Handedness: "Right", Score: 0.95}
}

// fist returns a closed hand: thumb tucked, every fingertip within 60px of the palm.
func fist() []Point {
	return []Point{
		Wrist: {300, 400},

		ThumbCMC: {250, 380},
		ThumbMCP: {230, 350},
		ThumbIP:  {215, 325},
		ThumbTip: {235, 330},

		IndexMCP: {270, 305},
		IndexPIP: {268, 285},
		IndexDIP: {272, 300},
		IndexTip: {280, 325},

		MiddleMCP: {300, 300},
		MiddlePIP: {300, 280},
		MiddleDIP: {300, 295},
		MiddleTip: {300, 320},

		RingMCP: {330, 305},
		RingPIP: {332, 285},
		RingDIP: {328, 300},
		RingTip: {320, 325},

		PinkyMCP: {355, 315},
		PinkyPIP: {358, 295},
		PinkyDIP: {352, 310},
		PinkyTip: {340, 335},
	}
}

// extendThumbOut swings the thumb sideways away from the palm.
func extendThumbOut(p []Point) {
	p[ThumbIP] = Point{200, 330}
	p[ThumbTip] = Point{175, 315}
}

// extendFinger straightens the finger whose MCP is at index mcp, shifting the
// tip dx pixels sideways.
func extendFinger(p []Point, mcp, dx int) {
	base := p[mcp]
	p[mcp+1] = Point{base.X + dx/4, base.Y - 40}
	p[mcp+2] = Point{base.X + dx/2, base.Y - 70}
	p[mcp+3] = Point{base.X + dx, base.Y - 100}
}

// RockLandmarks returns a closed fist.
func RockLandmarks() Hand {
	return newHand(fist())
}

// PaperLandmarks returns an open hand with all five fingers extended.
func PaperLandmarks() Hand {
	p := fist()
	extendThumbOut(p)
	extendFinger(p, IndexMCP, -5)
	extendFinger(p, MiddleMCP, 0)
	extendFinger(p, RingMCP, 5)
	extendFinger(p, PinkyMCP, 10)
	return newHand(p)
}

// ScissorsLandmarks returns a hand with index and middle extended and spread
// 40px apart, ring and pinky folded, palm reference at y=120.
func ScissorsLandmarks() Hand {
	return newHand([]Point{
		Wrist: {120, 200},

		ThumbCMC: {95, 170},
		ThumbMCP: {80, 140},
		ThumbIP:  {70, 125},
		ThumbTip: {85, 135},

		IndexMCP: {100, 125},
		IndexPIP: {100, 90},
		IndexDIP: {100, 70},
		IndexTip: {100, 50},

		MiddleMCP: {120, 120},
		MiddlePIP: {130, 85},
		MiddleDIP: {135, 65},
		MiddleTip: {140, 50},

		RingMCP: {140, 125},
		RingPIP: {140, 110},
		RingDIP: {125, 130},
		RingTip: {100, 150},

		PinkyMCP: {160, 130},
		PinkyPIP: {160, 115},
		PinkyDIP: {130, 140},
		PinkyTip: {100, 150},
	})
}

// PeaceLandmarks returns a wide V: index and middle extended 65px apart.
func PeaceLandmarks() Hand {
	p := fist()
	extendFinger(p, IndexMCP, -20)
	extendFinger(p, MiddleMCP, 15)
	return newHand(p)
}

// PointingLandmarks returns a hand pointing straight up with the index finger.
func PointingLandmarks() Hand {
	p := fist()
	extendFinger(p, IndexMCP, 0)
	return newHand(p)
}

// ThumbsUpLandmarks returns a fist with the thumb extended upward.
func ThumbsUpLandmarks() Hand {
	p := fist()
	p[ThumbIP] = Point{228, 300}
	p[ThumbTip] = Point{226, 260}
	return newHand(p)
}

// ThumbsDownLandmarks returns a fist with the thumb extended downward.
func ThumbsDownLandmarks() Hand {
	p := fist()
	p[ThumbIP] = Point{232, 400}
	p[ThumbTip] = Point{234, 440}
	return newHand(p)
}
