package sphere

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GoldenAngle is the angular step of the spiral between two consecutive points.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// Generate returns n points evenly spread over the unit sphere.
// Points run from the north pole (y = 1) to the south pole (y = -1) along a golden
// angle spiral. The result is deterministic for a given n.
func Generate(n int) []mgl64.Vec3 {
	if n <= 0 {
		return []mgl64.Vec3{}
	}

	denominator := float64(n - 1)
	if n == 1 {
		denominator = 1
	}

	points := make([]mgl64.Vec3, n)
	for i := 0; i < n; i++ {
		y := 1 - (float64(i)/denominator)*2
		radius := math.Sqrt(math.Max(0, 1-y*y))
		a := GoldenAngle * float64(i)

		points[i] = mgl64.Vec3{math.Cos(a) * radius, y, math.Sin(a) * radius}
	}

	return points
}
