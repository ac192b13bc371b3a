package mathutil

import "math"

// Axis conventions. BMD models are authored Z-up; poses are handled Y-up.
var (
	// ModelFlip converts Z-up (DirectX) to Y-up (OpenGL): Rx(-90°)
	ModelFlip = RotX(math.Pi / -2)

	// ModelFlipQuat is ModelFlip as a rotation quaternion.
	ModelFlipQuat = Rotation(math.Pi/-2, Vec3{1, 0, 0})

	// Forward is the local heading axis used for yaw extraction.
	Forward = Vec3{1, 0, 0}

	// Up is the world up axis after ModelFlip.
	Up = Vec3{0, 1, 0}
)

// WrapAngle maps an angle in radians onto (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
