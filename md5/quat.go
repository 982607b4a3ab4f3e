// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"github.com/chewxy/math32"

	"md5view/math/vec"
)

// ComputeW returns the scalar part of the unit quaternion with the vector
// part (x, y, z). md5 files always store the quaternion with w <= 0.
// Vector parts longer than 1 are clamped to w = 0.
func ComputeW(x, y, z float32) float32 {
	t := 1 - x*x - y*y - z*z
	if t < 0 {
		return 0
	}
	return -math32.Sqrt(t)
}

// UnitQuat returns the quaternion stored as (x, y, z) in a md5 file.
func UnitQuat(x, y, z float32) vec.Quat {
	return vec.Quat{X: x, Y: y, Z: z, W: ComputeW(x, y, z)}
}

func unitQuat(v vec.Vec3) vec.Quat {
	return UnitQuat(v.X, v.Y, v.Z)
}
