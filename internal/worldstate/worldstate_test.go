package worldstate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"

	"mu-bmd-blender/internal/mathutil"
	"mu-bmd-blender/internal/motion"
)

func near(t *testing.T, want, got mathutil.Vec3) {
	t.Helper()
	assert.True(t, floats.EqualApprox(want[:], got[:], 1e-9), "want %v got %v", want, got)
}

func TestNewGlobalStateIsCleared(t *testing.T) {
	t.Parallel()

	g := GlobalState{Position: mathutil.Vec3{1, 2, 3}, Orientation: mathutil.Rotation(1, mathutil.Up)}
	g.Clear()
	assert.Equal(t, NewGlobalState(), g)
	assert.InDelta(t, 0, g.Yaw(), 1e-12)
}

func TestVelocityIntegratesHorizontally(t *testing.T) {
	t.Parallel()

	g := NewGlobalState()
	v := VelocityControl{DesiredVelocity: mathutil.Vec3{2, 5, -1}}
	v.ApplyTo(&g, 1)
	v.ApplyTo(&g, 0.5)
	near(t, mathutil.Vec3{3, 0, -1.5}, g.Position)

	v.Clear()
	v.ApplyTo(&g, 1)
	near(t, mathutil.Vec3{3, 0, -1.5}, g.Position)
}

func TestVelocityFollowsHeading(t *testing.T) {
	t.Parallel()

	g := NewGlobalState()
	g.Orientation = mathutil.Rotation(math.Pi/2, mathutil.Up)
	VelocityControl{DesiredVelocity: mathutil.Vec3{1, 0, 0}}.ApplyTo(&g, 1)
	// Forward turned a quarter to the left lands on -Z.
	near(t, mathutil.Vec3{0, 0, -1}, g.Position)
	assert.InDelta(t, math.Pi/2, g.Yaw(), 1e-9)
}

func TestApply(t *testing.T) {
	t.Parallel()

	g := GlobalState{
		Position:    mathutil.Vec3{10, 0, 5},
		Orientation: mathutil.Rotation(math.Pi, mathutil.Up),
	}
	p := motion.NewPose(2)
	p.RootPosition = mathutil.Vec3{1, 3, 0}
	p.RootOrientation = mathutil.Rotation(0.25, mathutil.Up)

	g.Apply(&p)
	near(t, mathutil.Vec3{9, 3, 5}, p.RootPosition)
	assert.InDelta(t, mathutil.WrapAngle(math.Pi+0.25), mathutil.YawAngle(p.RootOrientation), 1e-9)
}

func TestValueSemantics(t *testing.T) {
	t.Parallel()

	a := NewGlobalState()
	b := a
	VelocityControl{DesiredVelocity: mathutil.Vec3{1, 0, 0}}.ApplyTo(&b, 1)
	assert.Equal(t, mathutil.Vec3{}, a.Position)
}
