// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"errors"
	"math"
	"testing"

	"md5view/math/vec"
)

func TestSkinMatchesBindPose(t *testing.T) {
	m := readTestMesh(t, testMesh)
	a := readTestAnim(t, testAnim)
	// frame 0 of the animation is the bind pose
	p, err := a.Pose(0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Skin(&m.Meshes[0], p, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range m.Meshes[0].Vertices {
		if !vec.Near(got[i], v.Position, eps) {
			t.Errorf("vert %d = %v, want %v", i, got[i], v.Position)
		}
	}
}

func TestSkinFrame(t *testing.T) {
	m := readTestMesh(t, testMesh)
	a := readTestAnim(t, testAnim)
	p, err := a.Pose(1)
	if err != nil {
		t.Fatal(err)
	}
	all, err := SkinAll(m, p)
	if err != nil {
		t.Fatal(err)
	}
	want := []vec.Vec3{{}, {X: 3}, {X: 2}}
	for i, w := range want {
		if !vec.Near(all[0][i], w, eps) {
			t.Errorf("vert %d = %v, want %v", i, all[0][i], w)
		}
	}
}

func TestSkinWeightRange(t *testing.T) {
	m := readTestMesh(t, testMesh)
	p := m.BindPose()
	tests := []struct {
		name         string
		start, count int
	}{
		{"count overflow", 1, math.MaxInt},
		{"start past end", 9, 1},
		{"negative start", -1, 1},
		{"negative count", 0, -1},
	}
	for _, tc := range tests {
		mesh := m.Meshes[0]
		mesh.Vertices = []Vertex{{StartWeight: tc.start, WeightCount: tc.count}}
		if _, err := Skin(&mesh, p, nil); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("%s: Skin = %v, want ErrIndexOutOfRange", tc.name, err)
		}
	}
}

func TestSkinJointRange(t *testing.T) {
	m := readTestMesh(t, testMesh)
	short := Pose{{Parent: -1, Orientation: vec.IdentityQuat()}}
	if _, err := Skin(&m.Meshes[0], short, nil); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Skin(short pose) = %v, want ErrIndexOutOfRange", err)
	}
}
