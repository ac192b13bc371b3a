package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

const tol = 1e-9

func quatNear(t *testing.T, want, got Quat, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, floats.EqualApprox(want[:], got[:], 1e-9), append([]interface{}{"want %v got %v", want, got}, msgAndArgs...)...)
}

func vecNear(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.True(t, floats.EqualApprox(want[:], got[:], 1e-9), "want %v got %v", want, got)
}

func TestRotation(t *testing.T) {
	t.Parallel()

	q := Rotation(math.Pi/2, Vec3{0, 1, 0})
	assert.InDelta(t, 1.0, math.Sqrt(QuatDot(q, q)), tol)

	// Right-handed: +X about +Y by 90° lands on -Z.
	vecNear(t, Vec3{0, 0, -1}, Rotate(Vec3{1, 0, 0}, q))
}

func TestRotationBetween(t *testing.T) {
	t.Parallel()

	t.Run("perpendicular", func(t *testing.T) {
		q := RotationBetween(Vec3{1, 0, 0}, Vec3{0, 1, 0})
		vecNear(t, Vec3{0, 1, 0}, Rotate(Vec3{1, 0, 0}, q))
	})

	t.Run("parallel yields identity", func(t *testing.T) {
		quatNear(t, QuatIdentity(), RotationBetween(Vec3{0, 0, 2}, Vec3{0, 0, 5}))
	})

	t.Run("anti-parallel yields identity", func(t *testing.T) {
		// Known limitation: no axis is chosen for a half turn.
		q := RotationBetween(Vec3{1, 0, 0}, Vec3{-1, 0, 0})
		quatNear(t, QuatIdentity(), q)
		vecNear(t, Vec3{1, 0, 0}, Rotate(Vec3{1, 0, 0}, q))
	})
}

func TestQuatMul(t *testing.T) {
	t.Parallel()

	a := Rotation(0.3, Vec3{0, 1, 0})
	b := Rotation(0.5, Vec3{0, 1, 0})
	quatNear(t, Rotation(0.8, Vec3{0, 1, 0}), QuatMul(a, b))

	// Composition applies the right operand first.
	rx := Rotation(math.Pi/2, Vec3{1, 0, 0})
	ry := Rotation(math.Pi/2, Vec3{0, 1, 0})
	v := Vec3{0, 0, 1}
	vecNear(t, Rotate(Rotate(v, rx), ry), Rotate(v, QuatMul(ry, rx)))

	quatNear(t, a, QuatMul(a, QuatIdentity()))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	quatNear(t, QuatIdentity(), Normalize(Quat{}))
	quatNear(t, Quat{0, 0.6, 0, 0.8}, Normalize(Quat{0, 3, 0, 4}))
}

func TestLerpIsNotRenormalized(t *testing.T) {
	t.Parallel()

	a := QuatIdentity()
	b := Rotation(math.Pi/2, Vec3{0, 0, 1})
	mid := Lerp(a, b, 0.5)
	assert.Less(t, math.Sqrt(QuatDot(mid, mid)), 1.0)

	n := Nlerp(a, b, 0.5)
	assert.InDelta(t, 1.0, math.Sqrt(QuatDot(n, n)), tol)
}

func TestSlerp(t *testing.T) {
	t.Parallel()

	a := Rotation(0.2, Vec3{1, 0, 0})
	b := Rotation(1.4, Vec3{0, 0, 1})

	t.Run("endpoints", func(t *testing.T) {
		quatNear(t, a, Slerp(a, b, 0))
		quatNear(t, b, Slerp(a, b, 1))
	})

	t.Run("identical endpoints", func(t *testing.T) {
		for _, u := range []float64{0, 0.25, 0.5, 0.9, 1} {
			quatNear(t, a, Slerp(a, a, u), "t=%v", u)
		}
	})

	t.Run("constant angular speed", func(t *testing.T) {
		z0 := QuatIdentity()
		z1 := Rotation(1.2, Vec3{0, 0, 1})
		quatNear(t, Rotation(0.3, Vec3{0, 0, 1}), Slerp(z0, z1, 0.25))
	})
}

func TestIdealSlerpTakesShortestArc(t *testing.T) {
	t.Parallel()

	a := Rotation(0.1, Vec3{0, 1, 0})
	b := Rotation(0.5, Vec3{0, 1, 0}).Neg() // same rotation, opposite hemisphere

	long := Slerp(a, b, 0.5)
	short := IdealSlerp(a, b, 0.5)

	// The shortest arc passes through the 0.3 rad rotation.
	assert.InDelta(t, 0, AngleBetween(Rotation(0.3, Vec3{0, 1, 0}), short), 1e-9)
	assert.Greater(t, AngleBetween(a, long), AngleBetween(a, short))

	// With both in the same hemisphere the two variants agree.
	quatNear(t, Slerp(a, b.Neg(), 0.5), IdealSlerp(a, b.Neg(), 0.5))
}

func TestYawAngle(t *testing.T) {
	t.Parallel()

	for _, yaw := range []float64{0, 0.5, -1.2, 3.0} {
		assert.InDelta(t, yaw, YawAngle(Rotation(yaw, Up)), 1e-9, "yaw=%v", yaw)
	}
	// Pitch alone leaves the heading untouched.
	assert.InDelta(t, 0, YawAngle(Rotation(0.4, Vec3{0, 0, 1})), 1e-9)
}

func TestAbsAndConjugate(t *testing.T) {
	t.Parallel()

	q := Quat{0.1, 0.2, 0.3, -0.9}
	assert.Equal(t, Quat{-0.1, -0.2, -0.3, 0.9}, Abs(q))
	assert.Equal(t, Quat{-0.1, -0.2, -0.3, -0.9}, Conjugate(q))

	r := Normalize(Quat{0.3, -0.2, 0.5, 0.7})
	quatNear(t, QuatIdentity(), QuatMul(r, Conjugate(r)))
}

func TestEulerToQuatMatchesMatrix(t *testing.T) {
	t.Parallel()

	rx, ry, rz := 0.3, -0.7, 1.1
	want := Mat3Mul(Mat3Mul(RotZ(rz), RotY(ry)), RotX(rx))
	got := QuatToMat3(EulerToQuat(rx, ry, rz))
	assert.True(t, floats.EqualApprox(want[:], got[:], 1e-9), "want %v got %v", want, got)
}

func TestWrapAngle(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, WrapAngle(0.5+4*math.Pi), tol)
	assert.InDelta(t, -0.5, WrapAngle(-0.5-2*math.Pi), tol)
	assert.InDelta(t, math.Pi, WrapAngle(-math.Pi), tol)
}
