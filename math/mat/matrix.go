// SPDX-License-Identifier: GPL-2.0-or-later

package mat

import (
	"fmt"

	"md5view/math/vec"
)

// Matrix is a 4x4 matrix in row major order. Points are column vectors, so
// the translation lives in the last column.
type Matrix struct {
	m [16]float32
}

func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix:\n%v %v %v %v\n%v %v %v %v\n%v %v %v %v\n%v %v %v %v\n",
		m.m[0], m.m[1], m.m[2], m.m[3],
		m.m[4], m.m[5], m.m[6], m.m[7],
		m.m[8], m.m[9], m.m[10], m.m[11],
		m.m[12], m.m[13], m.m[14], m.m[15],
	)
}

func Identity() *Matrix {
	return &Matrix{
		m: [16]float32{
			1, 0, 0, 0, // 0 - 3
			0, 1, 0, 0, // 4 - 7
			0, 0, 1, 0, // 8 - 11
			0, 0, 0, 1, // 12 - 15
		},
	}
}

func (m *Matrix) Copy() *Matrix {
	nm := &Matrix{}
	copy(nm.m[:], m.m[:])
	return nm
}

// Array returns the elements in column major order as expected by
// OpenGL style uploads.
func (m *Matrix) Array() [16]float32 {
	var r [16]float32
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r[col*4+row] = m.m[row*4+col]
		}
	}
	return r
}

// Mul returns a*b.
func Mul(a, b *Matrix) *Matrix {
	r := &Matrix{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var s float32
			for k := 0; k < 4; k++ {
				s += a.m[row*4+k] * b.m[k*4+col]
			}
			r.m[row*4+col] = s
		}
	}
	return r
}

func (m *Matrix) Translate(v vec.Vec3) {
	// 1, 0, 0, x
	// 0, 1, 0, y
	// 0, 0, 1, z
	// 0, 0, 0, 1
	// compute m*t
	x, y, z := v.X, v.Y, v.Z
	n := [16]float32{
		m.m[0], m.m[1], m.m[2], x*m.m[0] + y*m.m[1] + z*m.m[2] + m.m[3],
		m.m[4], m.m[5], m.m[6], x*m.m[4] + y*m.m[5] + z*m.m[6] + m.m[7],
		m.m[8], m.m[9], m.m[10], x*m.m[8] + y*m.m[9] + z*m.m[10] + m.m[11],
		m.m[12], m.m[13], m.m[14], x*m.m[12] + y*m.m[13] + z*m.m[14] + m.m[15],
	}
	m.m = n
}

// Rotate computes m*r where r is the rotation matrix of the unit
// quaternion q.
func (m *Matrix) Rotate(q vec.Quat) {
	m.m = Mul(m, Rotation(q)).m
}

// Rotation returns the rotation matrix of the unit quaternion q.
func Rotation(q vec.Quat) *Matrix {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return &Matrix{
		m: [16]float32{
			1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y), 0,
			2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x), 0,
			2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y), 0,
			0, 0, 0, 1,
		},
	}
}

// TransformPoint returns m*(v,1) with the homogeneous part dropped.
func (m *Matrix) TransformPoint(v vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: m.m[0]*v.X + m.m[1]*v.Y + m.m[2]*v.Z + m.m[3],
		Y: m.m[4]*v.X + m.m[5]*v.Y + m.m[6]*v.Z + m.m[7],
		Z: m.m[8]*v.X + m.m[9]*v.Y + m.m[10]*v.Z + m.m[11],
	}
}

// Position returns the translation column.
func (m *Matrix) Position() vec.Vec3 {
	return vec.Vec3{X: m.m[3], Y: m.m[7], Z: m.m[11]}
}
