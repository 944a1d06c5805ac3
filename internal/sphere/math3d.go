package sphere

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ProjectionScale keeps the projected sphere inset within its container.
const ProjectionScale = 0.35

// Rotation returns the rotation matrix about axis by angle (Rodrigues' formula).
// The axis is normalized first; a zero axis yields the identity.
func Rotation(axis mgl64.Vec3, angle float64) mgl64.Mat3 {
	length := axis.Len()
	if length == 0 {
		return mgl64.Ident3()
	}
	u := axis.Mul(1 / length)
	ux, uy, uz := u[0], u[1], u[2]

	cos := math.Cos(angle)
	sin := math.Sin(angle)
	k := 1 - cos

	return mgl64.Mat3FromRows(
		mgl64.Vec3{cos + ux*ux*k, ux*uy*k - uz*sin, ux*uz*k + uy*sin},
		mgl64.Vec3{uy*ux*k + uz*sin, cos + uy*uy*k, uy*uz*k - ux*sin},
		mgl64.Vec3{uz*ux*k - uy*sin, uz*uy*k + ux*sin, cos + uz*uz*k},
	)
}

// Project maps a rotated point to its unclamped screen offset from the container center.
func Project(v mgl64.Vec3, size float64) (x, y float64) {
	return size * v[0] * ProjectionScale, size * v[1] * ProjectionScale
}

// DepthScale maps z in [-1, 1] to [1/3, 1]; nearer points are larger.
func DepthScale(z float64) float64 {
	return (z + 2) / 3
}

// Opacity maps z in [-1, 1] to [0.2, 1]; points behind the sphere fade but stay visible.
func Opacity(z float64) float64 {
	return (z + 1.5) / 2.5
}

// Clamp limits an offset so an item of the given extent stays inside the container.
// An item wider than its container is kept centered.
func Clamp(v, container, item float64) float64 {
	limit := (container - item) / 2
	if limit < 0 {
		limit = 0
	}
	return math.Max(-limit, math.Min(v, limit))
}
