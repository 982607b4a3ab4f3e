// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Quat is a rotation quaternion. W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle returns the rotation of rad radians around axis.
func QuatFromAxisAngle(axis Vec3, rad float32) Quat {
	s, c := math32.Sincos(rad / 2)
	a := axis.Normalize()
	return Quat{a.X * s, a.Y * s, a.Z * s, c}
}

func (q Quat) String() string {
	return fmt.Sprintf("[%v (%v %v %v)]", q.W, q.X, q.Y, q.Z)
}

func (q Quat) Vec() Vec3 {
	return Vec3{q.X, q.Y, q.Z}
}

// QuatMul returns the Hamilton product a * b, the rotation b followed by a.
func QuatMul(a, b Quat) Quat {
	return Quat{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

func QuatDot(a, b Quat) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

func (q Quat) Length() float32 {
	return math32.Sqrt(QuatDot(q, q))
}

// Normalize returns q scaled to unit length. The zero quaternion has no
// direction and yields the identity.
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l == 0 {
		return IdentityQuat()
	}
	s := 1 / l
	return Quat{q.X * s, q.Y * s, q.Z * s, q.W * s}
}

// Rotate returns v rotated by q, computed as q * v * conj(q).
// q is expected to have unit length.
func (q Quat) Rotate(v Vec3) Vec3 {
	// t = 2 * cross(q.xyz, v); v' = v + w*t + cross(q.xyz, t)
	u := q.Vec()
	t := Cross(u, v).Scale(2)
	return Add(Add(v, t.Scale(q.W)), Cross(u, t))
}

// SameRotation reports whether a and b describe the same rotation within
// eps. q and -q rotate identically.
func SameRotation(a, b Quat, eps float32) bool {
	return 1-math32.Abs(QuatDot(a, b)) <= eps
}
