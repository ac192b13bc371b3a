package mathutil

import "math"

// Mat3 is a row-major 3×3 matrix. Only rotations are stored in it: the
// Z-up to Y-up model flip and the reference for Euler key conversion.
type Mat3 [9]float64

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := range 3 {
		for c := range 3 {
			m[r*3+c] = a[r*3]*b[c] + a[r*3+1]*b[3+c] + a[r*3+2]*b[6+c]
		}
	}
	return m
}

// MulVec3 returns m × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// RotX, RotY and RotZ rotate by a radians about a world axis.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{1, 0, 0, 0, c, -s, 0, s, c}
}

func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{c, 0, s, 0, 1, 0, -s, 0, c}
}

func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{c, -s, 0, s, c, 0, 0, 0, 1}
}
