// SPDX-License-Identifier: GPL-2.0-or-later

package bake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"md5view/md5"
	"md5view/math/vec"
)

const anim = `MD5Version 10
numFrames 2
numJoints 2
frameRate 30
numAnimatedComponents 2
hierarchy {
	"root" -1 1 0
	"arm" 0 1 1
}
bounds {
	( 0 0 0 ) ( 1 0 0 )
	( 0 0 0 ) ( 2 0 0 )
}
baseframe {
	( 0 0 0 ) ( 0 0 0 )
	( 1 0 0 ) ( 0 0 0 )
}
frame 0 {
	0 1
}
frame 1 {
	1 1
}
`

func bakeTest(t *testing.T) *Baked {
	t.Helper()
	a, err := md5.ReadAnim("walk.md5anim", strings.NewReader(anim))
	if err != nil {
		t.Fatalf("ReadAnim: %v", err)
	}
	b, err := Bake("walk", a)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	return b
}

func TestBake(t *testing.T) {
	b := bakeTest(t)
	if len(b.Frames) != 2 || len(b.Joints) != 2 || b.FrameRate != 30 {
		t.Fatalf("Bake = %d frames %d joints rate %d", len(b.Frames), len(b.Joints), b.FrameRate)
	}
	if b.Joints[1] != (Joint{"arm", 0}) {
		t.Errorf("joint 1 = %v", b.Joints[1])
	}
	if got := b.Frames[1][1].Position; got != (vec.Vec3{2, 0, 0}) {
		t.Errorf("frame 1 arm at %v, want (2 0 0)", got)
	}
}

func TestRoundTrip(t *testing.T) {
	b := bakeTest(t)
	out, err := b.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(out)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Name != b.Name || got.FrameRate != b.FrameRate || len(got.Joints) != len(b.Joints) {
		t.Fatalf("Unmarshal = %v %d %v", got.Name, got.FrameRate, got.Joints)
	}
	for i := range b.Joints {
		if got.Joints[i] != b.Joints[i] {
			t.Errorf("joint %d = %v, want %v", i, got.Joints[i], b.Joints[i])
		}
	}
	for f := range b.Frames {
		for j := range b.Frames[f] {
			if got.Frames[f][j] != b.Frames[f][j] {
				t.Errorf("frame %d joint %d = %v, want %v", f, j, got.Frames[f][j], b.Frames[f][j])
			}
		}
	}
}

func TestWriteRead(t *testing.T) {
	b := bakeTest(t)
	name := filepath.Join(t.TempDir(), "walk.bake")
	if err := b.Write(name); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(name)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Frames) != 2 {
		t.Errorf("Read got %d frames", len(got.Frames))
	}
	if _, err := Read(filepath.Join(t.TempDir(), "missing.bake")); err == nil {
		t.Errorf("Read(missing) succeeded")
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	b := bakeTest(t)
	out, err := b.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	out = protowire.AppendTag(out, 15, protowire.VarintType)
	out = protowire.AppendVarint(out, 7)
	if _, err := Unmarshal(out); err != nil {
		t.Errorf("Unmarshal with unknown field: %v", err)
	}
}

func TestMarshalArity(t *testing.T) {
	b := &Baked{
		Joints: []Joint{{"root", -1}},
		Frames: []md5.Pose{{}, {}},
	}
	if _, err := b.Marshal(); err == nil {
		t.Errorf("Marshal with short frame succeeded")
	}
}

func TestUnmarshalErrors(t *testing.T) {
	joint := func(name string, parent int64) []byte {
		var m []byte
		m = protowire.AppendTag(m, jointName, protowire.BytesType)
		m = protowire.AppendString(m, name)
		m = protowire.AppendTag(m, jointParent, protowire.VarintType)
		m = protowire.AppendVarint(m, protowire.EncodeZigZag(parent))
		out := protowire.AppendTag(nil, bakedJoints, protowire.BytesType)
		return protowire.AppendBytes(out, m)
	}
	frame := func(n int) []byte {
		var packed []byte
		for range n {
			packed = protowire.AppendFixed32(packed, 0)
		}
		m := protowire.AppendTag(nil, frameValues, protowire.BytesType)
		m = protowire.AppendBytes(m, packed)
		out := protowire.AppendTag(nil, bakedFrames, protowire.BytesType)
		return protowire.AppendBytes(out, m)
	}
	cat := func(b ...[]byte) []byte {
		var out []byte
		for _, x := range b {
			out = append(out, x...)
		}
		return out
	}
	good := cat(joint("root", -1), frame(7))
	if _, err := Unmarshal(good); err != nil {
		t.Fatalf("Unmarshal(good) = %v", err)
	}
	tests := []struct {
		name string
		in   []byte
	}{
		{"short frame", cat(joint("root", -1), frame(6))},
		{"long frame", cat(joint("root", -1), frame(8))},
		{"forward parent", cat(joint("root", 0), frame(7))},
		{"parent below -1", cat(joint("root", -2), frame(7))},
		{"truncated", good[:len(good)-3]},
		{"wrong type", protowire.AppendVarint(protowire.AppendTag(nil, bakedName, protowire.VarintType), 1)},
	}
	for _, tc := range tests {
		if _, err := Unmarshal(tc.in); err == nil {
			t.Errorf("Unmarshal(%s) succeeded", tc.name)
		}
	}
}

func TestFieldsMatchSchema(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("bakepb", "bake.proto"))
	if err != nil {
		t.Fatal(err)
	}
	schema := string(b)
	for _, f := range []struct {
		decl string
		num  protowire.Number
	}{
		{"string name = %d;", bakedName},
		{"int32 frame_rate = %d;", bakedFrameRate},
		{"repeated Joint joints = %d;", bakedJoints},
		{"repeated Frame frames = %d;", bakedFrames},
		{"sint32 parent = %d;", jointParent},
		{"repeated fixed32 values = %d;", frameValues},
	} {
		if d := fmt.Sprintf(f.decl, f.num); !strings.Contains(schema, d) {
			t.Errorf("bake.proto does not declare %q", d)
		}
	}
}
