// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"github.com/google/uuid"

	"md5view/md5"
	"md5view/math/vec"
)

type Model interface {
	Name() string
	ID() uuid.UUID
	Mins() vec.Vec3
	Maxs() vec.Vec3
}

// Mesh is a loaded md5mesh. Mins and Maxs enclose the bind pose vertices.
type Mesh struct {
	*md5.MeshInfo
	name string
	id   uuid.UUID
	mins vec.Vec3
	maxs vec.Vec3
}

func newMesh(name string, info *md5.MeshInfo) *Mesh {
	m := &Mesh{
		MeshInfo: info,
		name:     name,
		id:       uuid.Must(uuid.NewV7()),
	}
	first := true
	for _, mesh := range info.Meshes {
		for _, v := range mesh.Vertices {
			if first {
				m.mins, m.maxs = v.Position, v.Position
				first = false
				continue
			}
			m.mins, _ = vec.MinMax(m.mins, v.Position)
			_, m.maxs = vec.MinMax(m.maxs, v.Position)
		}
	}
	return m
}

func (m *Mesh) Name() string   { return m.name }
func (m *Mesh) ID() uuid.UUID  { return m.id }
func (m *Mesh) Mins() vec.Vec3 { return m.mins }
func (m *Mesh) Maxs() vec.Vec3 { return m.maxs }

// Anim is a loaded md5anim. Mins and Maxs enclose the joints of all frames.
type Anim struct {
	*md5.AnimInfo
	name string
	id   uuid.UUID
	mins vec.Vec3
	maxs vec.Vec3
}

func newAnim(name string, info *md5.AnimInfo) (*Anim, error) {
	a := &Anim{
		AnimInfo: info,
		name:     name,
		id:       uuid.Must(uuid.NewV7()),
	}
	var pose md5.Pose
	for f := 0; f < info.NumFrames(); f++ {
		var err error
		if pose, err = info.ResolvePose(f, pose); err != nil {
			return nil, err
		}
		mins, maxs := pose.Bounds()
		if f == 0 {
			a.mins, a.maxs = mins, maxs
			continue
		}
		a.mins, _ = vec.MinMax(a.mins, mins)
		_, a.maxs = vec.MinMax(a.maxs, maxs)
	}
	return a, nil
}

func (a *Anim) Name() string   { return a.name }
func (a *Anim) ID() uuid.UUID  { return a.id }
func (a *Anim) Mins() vec.Vec3 { return a.mins }
func (a *Anim) Maxs() vec.Vec3 { return a.maxs }
