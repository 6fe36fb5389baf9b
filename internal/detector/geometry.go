package detector

import "math"

// Distance calculates the Euclidean distance between two points in pixels.
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Angle returns the angle in degrees at vertex formed by the rays vertex->a and vertex->c.
// Returns 0 when either ray has zero length.
func Angle(a, vertex, c Point) float64 {
	v1x, v1y := float64(a.X-vertex.X), float64(a.Y-vertex.Y)
	v2x, v2y := float64(c.X-vertex.X), float64(c.Y-vertex.Y)

	n1 := math.Hypot(v1x, v1y)
	n2 := math.Hypot(v2x, v2y)
	if n1 == 0 || n2 == 0 {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y) / (n1 * n2)
	// Clamp rounding noise before acos
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}
