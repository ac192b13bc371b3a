package mathutil

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

// slerpEpsilon is the sin(theta) below which Slerp falls back to linear weights.
const slerpEpsilon = 0.001

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

func (q Quat) number() quat.Number {
	return quat.Number{Real: q[3], Imag: q[0], Jmag: q[1], Kmag: q[2]}
}

func fromNumber(n quat.Number) Quat {
	return Quat{n.Imag, n.Jmag, n.Kmag, n.Real}
}

// Rotation returns the unit quaternion for a right-handed rotation of angle
// radians about axis. The axis must already be unit length.
func Rotation(angle float64, axis Vec3) Quat {
	s := math.Sin(angle / 2)
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, math.Cos(angle / 2)}
}

// RotationBetween returns the rotation taking from onto to.
// Parallel and anti-parallel inputs have no unique axis and yield the
// identity, so a 180° turn cannot be expressed here.
func RotationBetween(from, to Vec3) Quat {
	perp := from.Cross(to)
	l := perp.Len()
	if l == 0 {
		return QuatIdentity()
	}
	theta := math.Atan2(l, from.Dot(to))
	return Rotation(theta, perp.Scale(1/l))
}

// QuatMul returns the Hamilton product a·b.
func QuatMul(a, b Quat) Quat {
	return fromNumber(quat.Mul(a.number(), b.number()))
}

// Conjugate negates the vector part.
func Conjugate(q Quat) Quat {
	return fromNumber(quat.Conj(q.number()))
}

// QuatDot returns the 4D dot product.
func QuatDot(a, b Quat) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// Normalize returns q at unit length, or the identity for a zero quaternion.
func Normalize(q Quat) Quat {
	l := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	if l == 0 {
		return QuatIdentity()
	}
	l = math.Sqrt(l)
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

// Scale multiplies every component by s.
func (q Quat) Scale(s float64) Quat {
	return Quat{q[0] * s, q[1] * s, q[2] * s, q[3] * s}
}

// Add sums componentwise.
func (q Quat) Add(o Quat) Quat {
	return Quat{q[0] + o[0], q[1] + o[1], q[2] + o[2], q[3] + o[3]}
}

// Neg flips the sign of all four components (same rotation).
func (q Quat) Neg() Quat {
	return q.Scale(-1)
}

// Abs returns the representative of q with a non-negative w.
func Abs(q Quat) Quat {
	if q[3] < 0 {
		return q.Neg()
	}
	return q
}

// Rotate applies q to v: q·(v,0)·q*.
func Rotate(v Vec3, q Quat) Vec3 {
	p := Quat{v[0], v[1], v[2], 0}
	r := QuatMul(q, QuatMul(p, Conjugate(q)))
	return Vec3{r[0], r[1], r[2]}
}

// Lerp interpolates componentwise. The result is not renormalized.
func Lerp(a, b Quat, t float64) Quat {
	return Quat{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	}
}

// Nlerp is Lerp followed by Normalize.
func Nlerp(a, b Quat, t float64) Quat {
	return Normalize(Lerp(a, b, t))
}

// Slerp interpolates along the great arc from a to b. Antipodal
// representations of nearby rotations travel the long way round; use
// IdealSlerp when that matters.
func Slerp(a, b Quat, t float64) Quat {
	cosTheta := QuatDot(a, b)
	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}
	theta := math.Acos(cosTheta)
	sinTheta := math.Sin(theta)

	var w1, w2 float64
	if sinTheta > slerpEpsilon {
		w1 = math.Sin((1-t)*theta) / sinTheta
		w2 = math.Sin(t*theta) / sinTheta
	} else {
		w1 = 1 - t
		w2 = t
	}
	return Normalize(a.Scale(w1).Add(b.Scale(w2)))
}

// IdealSlerp is Slerp constrained to the shortest arc: a is negated when
// the two quaternions lie in opposite hemispheres.
func IdealSlerp(a, b Quat, t float64) Quat {
	if QuatDot(a, b) < 0 {
		a = a.Neg()
	}
	return Slerp(a, b, t)
}

// YawAngle returns the heading of q about the up axis: the local forward
// axis is rotated and projected as atan2(-z, x).
func YawAngle(q Quat) float64 {
	f := Rotate(Forward, q)
	return math.Atan2(-f[2], f[0])
}

// AngleBetween returns the rotation angle in radians separating a and b,
// ignoring quaternion sign.
func AngleBetween(a, b Quat) float64 {
	d := math.Abs(QuatDot(Normalize(a), Normalize(b)))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// EulerToQuat converts Euler XYZ (radians) to a quaternion.
// Matches MU Online's bmdAngleToQuaternion function.
func EulerToQuat(rx, ry, rz float64) Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return Quat{
		sx*cy*cz - cx*sy*sz, // x
		cx*sy*cz + sx*cy*sz, // y
		cx*cy*sz - sx*sy*cz, // z
		cx*cy*cz + sx*sy*sz, // w
	}
}

// QuatToMat3 converts a quaternion to a 3×3 rotation matrix.
func QuatToMat3(q Quat) Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}
