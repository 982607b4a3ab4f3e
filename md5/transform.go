// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"md5view/math/mat"
	"md5view/math/vec"
)

// LocalTransform returns Translate(position) * Rotation(orientation).
func LocalTransform(position vec.Vec3, orientation vec.Quat) *mat.Matrix {
	m := mat.Identity()
	m.Translate(position)
	m.Rotate(orientation)
	return m
}

// AbsoluteTransforms returns the object space transform of every joint.
// Parents must precede their children.
func AbsoluteTransforms(joints []Joint) ([]*mat.Matrix, error) {
	r := make([]*mat.Matrix, len(joints))
	for i, j := range joints {
		switch {
		case j.Parent == -1:
			r[i] = LocalTransform(j.Position, j.Orientation)
		case j.Parent < -1 || j.Parent >= len(joints):
			return nil, rangeErrorf("joint %d (%s) has parent %d", i, j.Name, j.Parent)
		case j.Parent >= i:
			return nil, formatErrorf("joint %d (%s) has parent %d which does not precede it", i, j.Name, j.Parent)
		default:
			r[i] = compose(r[j.Parent], j.Position, j.Orientation)
		}
	}
	return r, nil
}

// compose returns parent * LocalTransform(position, orientation).
func compose(parent *mat.Matrix, position vec.Vec3, orientation vec.Quat) *mat.Matrix {
	m := parent.Copy()
	m.Translate(position)
	m.Rotate(orientation)
	return m
}
