// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"math"

	qmath "md5view/math"
	"md5view/math/vec"
)

// ResolvePose computes the object space skeleton of frame. The result is
// written to dst if it has enough capacity. ResolvePose does not modify a,
// concurrent calls are safe as long as they do not share dst.
func (a *AnimInfo) ResolvePose(frame int, dst Pose) (Pose, error) {
	if frame < 0 || frame >= len(a.Frames) {
		return nil, rangeErrorf("frame %d, want [0,%d)", frame, len(a.Frames))
	}
	if len(a.BaseFrame) != len(a.Joints) {
		return nil, formatErrorf("%d baseframe joints for %d joints", len(a.BaseFrame), len(a.Joints))
	}
	data := a.Frames[frame]
	pose := dst[:0]
	if cap(pose) < len(a.Joints) {
		pose = make(Pose, 0, len(a.Joints))
	}
	for i, ji := range a.Joints {
		base := a.BaseFrame[i]
		p := base.Position
		q := base.Orientation.Vec()
		k := ji.StartIndex
		// the frame values replace the base values in the order of the flags
		channels := [6]*float32{&p.X, &p.Y, &p.Z, &q.X, &q.Y, &q.Z}
		for bit, c := range channels {
			if ji.Flags&(1<<bit) == 0 {
				continue
			}
			if k >= len(data) {
				return nil, rangeErrorf("joint %d reads component %d of frame %d with %d components", i, k, frame, len(data))
			}
			*c = data[k]
			k++
		}
		j := PoseJoint{
			Parent:      ji.Parent,
			Position:    p,
			Orientation: unitQuat(q),
		}
		if ji.Parent < -1 {
			return nil, rangeErrorf("joint %d has parent %d", i, ji.Parent)
		}
		if ji.Parent >= 0 {
			if ji.Parent >= i {
				return nil, formatErrorf("joint %d has parent %d which does not precede it", i, ji.Parent)
			}
			parent := pose[ji.Parent]
			j.Position = vec.Add(parent.Orientation.Rotate(j.Position), parent.Position)
			j.Orientation = vec.QuatMul(parent.Orientation, j.Orientation).Normalize()
		}
		pose = append(pose, j)
	}
	return pose, nil
}

// Pose is ResolvePose with a freshly allocated result.
func (a *AnimInfo) Pose(frame int) (Pose, error) {
	return a.ResolvePose(frame, nil)
}

// FrameAt returns the frame shown seconds after the animation started.
// The animation loops, negative times count backwards from the end.
func (a *AnimInfo) FrameAt(seconds float64) int {
	n := len(a.Frames)
	if n == 0 || a.FrameRate <= 0 {
		return 0
	}
	return qmath.Wrap(int(math.Floor(seconds*float64(a.FrameRate))), n)
}

// Duration returns the length of the animation in seconds.
func (a *AnimInfo) Duration() float64 {
	if a.FrameRate <= 0 {
		return 0
	}
	return float64(len(a.Frames)) / float64(a.FrameRate)
}

// CheckJoints verifies that the animation hierarchy matches the skeleton
// of the mesh.
func (a *AnimInfo) CheckJoints(m *MeshInfo) error {
	if len(a.Joints) != len(m.Joints) {
		return formatErrorf("animation has %d joints, mesh has %d", len(a.Joints), len(m.Joints))
	}
	for i, j := range a.Joints {
		mj := m.Joints[i]
		if j.Name != mj.Name {
			return formatErrorf("joint %d is %q in the animation and %q in the mesh", i, j.Name, mj.Name)
		}
		if j.Parent != mj.Parent {
			return formatErrorf("joint %d (%s) has parent %d in the animation and %d in the mesh", i, j.Name, j.Parent, mj.Parent)
		}
	}
	return nil
}

// Bounds returns the axis aligned box around all joint positions.
func (p Pose) Bounds() (mins, maxs vec.Vec3) {
	if len(p) == 0 {
		return
	}
	mins, maxs = p[0].Position, p[0].Position
	for _, j := range p[1:] {
		mins, _ = vec.MinMax(mins, j.Position)
		_, maxs = vec.MinMax(maxs, j.Position)
	}
	return
}

// Bones returns a line segment from every joint to its parent.
func (p Pose) Bones() [][2]vec.Vec3 {
	var r [][2]vec.Vec3
	for _, j := range p {
		if j.Parent < 0 || j.Parent >= len(p) {
			continue
		}
		r = append(r, [2]vec.Vec3{j.Position, p[j.Parent].Position})
	}
	return r
}

// BindPose returns the bind skeleton of the mesh as a Pose.
func (m *MeshInfo) BindPose() Pose {
	r := make(Pose, len(m.Joints))
	for i, j := range m.Joints {
		r[i] = PoseJoint{
			Parent:   j.Parent,
			Position: j.Absolute.Position(),
		}
		if j.Parent >= 0 && j.Parent < i {
			r[i].Orientation = vec.QuatMul(r[j.Parent].Orientation, j.Orientation).Normalize()
		} else {
			r[i].Orientation = j.Orientation
		}
	}
	return r
}
