// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"md5view/math/vec"
)

// Skin computes the object space position of every vertex of m in pose.
// The result is written to dst if it has enough capacity.
func Skin(m *Mesh, pose Pose, dst []vec.Vec3) ([]vec.Vec3, error) {
	r := dst[:0]
	if cap(r) < len(m.Vertices) {
		r = make([]vec.Vec3, 0, len(m.Vertices))
	}
	for i, v := range m.Vertices {
		if v.StartWeight < 0 || v.WeightCount < 0 || v.StartWeight > len(m.Weights) ||
			v.WeightCount > len(m.Weights)-v.StartWeight {
			return nil, rangeErrorf("vertex %d uses %d weights from %d of %d", i, v.WeightCount, v.StartWeight, len(m.Weights))
		}
		end := v.StartWeight + v.WeightCount
		var p vec.Vec3
		for _, w := range m.Weights[v.StartWeight:end] {
			if w.Joint < 0 || w.Joint >= len(pose) {
				return nil, rangeErrorf("vertex %d is weighted to joint %d of %d", i, w.Joint, len(pose))
			}
			j := pose[w.Joint]
			wp := vec.Add(j.Orientation.Rotate(w.Position), j.Position)
			p = vec.Add(p, wp.Scale(w.Bias))
		}
		r = append(r, p)
	}
	return r, nil
}

// SkinAll skins every mesh of info.
func SkinAll(info *MeshInfo, pose Pose) ([][]vec.Vec3, error) {
	r := make([][]vec.Vec3, len(info.Meshes))
	for i := range info.Meshes {
		v, err := Skin(&info.Meshes[i], pose, nil)
		if err != nil {
			return nil, err
		}
		r[i] = v
	}
	return r, nil
}
