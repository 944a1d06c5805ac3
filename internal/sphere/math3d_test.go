package sphere

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func assertVecInDelta(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d: want %v got %v", i, want, got)
	}
}

func TestRotation_Identity(t *testing.T) {
	axes := []mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0.3, -0.2, 0.9}}
	for _, axis := range axes {
		r := Rotation(axis, 0)
		for _, p := range Generate(12) {
			assertVecInDelta(t, p, r.Mul3x1(p), epsilon)
		}
	}
}

func TestRotation_Inverse(t *testing.T) {
	axis := mgl64.Vec3{0.2, 0.7, -0.4}
	for _, angle := range []float64{0.01, 1, math.Pi / 3, 7.5, -2} {
		forward := Rotation(axis, angle)
		back := Rotation(axis, -angle)
		for _, p := range Generate(20) {
			assertVecInDelta(t, p, back.Mul3x1(forward.Mul3x1(p)), 1e-9)
		}
	}
}

func TestRotation_MatchesHomogRotate(t *testing.T) {
	axis := mgl64.Vec3{1, 2, 3}
	angle := 0.8
	want := mgl64.HomogRotate3D(angle, axis.Normalize()).Mat3()
	got := Rotation(axis, angle)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}
}

func TestRotation_QuarterTurnAboutY(t *testing.T) {
	r := Rotation(mgl64.Vec3{0, 1, 0}, math.Pi/2)
	assertVecInDelta(t, mgl64.Vec3{0, 0, -1}, r.Mul3x1(mgl64.Vec3{1, 0, 0}), epsilon)
}

func TestRotation_ZeroAxis(t *testing.T) {
	assert.Equal(t, mgl64.Ident3(), Rotation(mgl64.Vec3{}, 1.2))
}

func TestRotation_PreservesLength(t *testing.T) {
	// an unnormalized axis still yields a pure rotation
	r := Rotation(mgl64.Vec3{0.5, 0.4, 0.1}, 2.1)
	for _, p := range Generate(30) {
		assert.InDelta(t, 1.0, r.Mul3x1(p).Len(), 1e-9)
	}
}

func TestDepthCues(t *testing.T) {
	assert.InDelta(t, 1.0/3, DepthScale(-1), epsilon)
	assert.InDelta(t, 1.0, DepthScale(1), epsilon)
	assert.InDelta(t, 0.2, Opacity(-1), epsilon)
	assert.InDelta(t, 1.0, Opacity(1), epsilon)

	prevScale, prevOpacity := DepthScale(-1), Opacity(-1)
	for z := -1.0 + 0.05; z <= 1.0; z += 0.05 {
		scale, opacity := DepthScale(z), Opacity(z)
		assert.Greater(t, scale, prevScale)
		assert.Greater(t, opacity, prevOpacity)
		assert.GreaterOrEqual(t, scale, 1.0/3-epsilon)
		assert.LessOrEqual(t, scale, 1.0+epsilon)
		assert.GreaterOrEqual(t, opacity, 0.2-epsilon)
		assert.LessOrEqual(t, opacity, 1.0+epsilon)
		prevScale, prevOpacity = scale, opacity
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v         float64
		container float64
		item      float64
		want      float64
	}{
		{name: "inside", v: 10, container: 200, item: 40, want: 10},
		{name: "beyond right", v: 150, container: 200, item: 40, want: 80},
		{name: "beyond left", v: -150, container: 200, item: 40, want: -80},
		{name: "item fills container", v: 30, container: 100, item: 100, want: 0},
		{name: "item larger than container", v: -30, container: 100, item: 140, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.v, tt.container, tt.item)
			assert.InDelta(t, tt.want, got, epsilon)
			limit := math.Max(0, (tt.container-tt.item)/2)
			assert.LessOrEqual(t, math.Abs(got), limit+epsilon)
		})
	}
}

func TestProject(t *testing.T) {
	x, y := Project(mgl64.Vec3{1, -0.5, 0.3}, 200)
	assert.InDelta(t, 70.0, x, epsilon)
	assert.InDelta(t, -35.0, y, epsilon)
}
