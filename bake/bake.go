// SPDX-License-Identifier: GPL-2.0-or-later

// Package bake stores fully resolved animation poses in protobuf wire
// format so that a player does not have to resolve frames at runtime.
// The schema is bakepb/bake.proto, every frame holds px py pz qx qy qz qw
// for every joint.
package bake

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"md5view/md5"
	"md5view/math/vec"
)

const floatsPerJoint = 7

const (
	bakedName      protowire.Number = 1
	bakedFrameRate protowire.Number = 2
	bakedJoints    protowire.Number = 3
	bakedFrames    protowire.Number = 4

	jointName   protowire.Number = 1
	jointParent protowire.Number = 2

	frameValues protowire.Number = 1
)

type Joint struct {
	Name   string
	Parent int
}

type Baked struct {
	Name      string
	FrameRate int
	Joints    []Joint
	Frames    []md5.Pose
}

// Bake resolves every frame of anim.
func Bake(name string, anim *md5.AnimInfo) (*Baked, error) {
	b := &Baked{
		Name:      name,
		FrameRate: anim.FrameRate,
		Joints:    make([]Joint, len(anim.Joints)),
		Frames:    make([]md5.Pose, 0, anim.NumFrames()),
	}
	for i, j := range anim.Joints {
		b.Joints[i] = Joint{j.Name, j.Parent}
	}
	for f := range anim.NumFrames() {
		p, err := anim.Pose(f)
		if err != nil {
			return nil, errors.Wrapf(err, "baking frame %d of %s", f, name)
		}
		b.Frames = append(b.Frames, p)
	}
	return b, nil
}

func (b *Baked) Marshal() ([]byte, error) {
	var out []byte
	out = protowire.AppendTag(out, bakedName, protowire.BytesType)
	out = protowire.AppendString(out, b.Name)
	out = protowire.AppendTag(out, bakedFrameRate, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(int64(b.FrameRate)))
	for _, j := range b.Joints {
		var m []byte
		m = protowire.AppendTag(m, jointName, protowire.BytesType)
		m = protowire.AppendString(m, j.Name)
		m = protowire.AppendTag(m, jointParent, protowire.VarintType)
		m = protowire.AppendVarint(m, protowire.EncodeZigZag(int64(j.Parent)))
		out = protowire.AppendTag(out, bakedJoints, protowire.BytesType)
		out = protowire.AppendBytes(out, m)
	}
	for i, f := range b.Frames {
		if len(f) != len(b.Joints) {
			return nil, errors.Errorf("frame %d has %d joints, want %d", i, len(f), len(b.Joints))
		}
		var packed []byte
		for _, j := range f {
			for _, v := range [floatsPerJoint]float32{
				j.Position.X, j.Position.Y, j.Position.Z,
				j.Orientation.X, j.Orientation.Y, j.Orientation.Z, j.Orientation.W,
			} {
				packed = protowire.AppendFixed32(packed, math.Float32bits(v))
			}
		}
		var m []byte
		m = protowire.AppendTag(m, frameValues, protowire.BytesType)
		m = protowire.AppendBytes(m, packed)
		out = protowire.AppendTag(out, bakedFrames, protowire.BytesType)
		out = protowire.AppendBytes(out, m)
	}
	return out, nil
}

// fields calls f for every field in b. Unknown fields are passed to f too
// and skipped if f returns a negative length.
func fields(b []byte, f func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		n, err := f(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
		}
		b = b[n:]
	}
	return nil
}

func consumeBytes(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeVarint(b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func wrongType(num protowire.Number, typ protowire.Type) error {
	return errors.Errorf("field %d has wire type %d", num, typ)
}

func Unmarshal(in []byte) (*Baked, error) {
	b := &Baked{}
	var frames [][]float32
	err := fields(in, func(num protowire.Number, typ protowire.Type, in []byte) (int, error) {
		switch num {
		case bakedName:
			if typ != protowire.BytesType {
				return 0, wrongType(num, typ)
			}
			v, n, err := consumeBytes(in)
			b.Name = string(v)
			return n, err
		case bakedFrameRate:
			if typ != protowire.VarintType {
				return 0, wrongType(num, typ)
			}
			v, n, err := consumeVarint(in)
			b.FrameRate = int(int32(v))
			return n, err
		case bakedJoints:
			if typ != protowire.BytesType {
				return 0, wrongType(num, typ)
			}
			v, n, err := consumeBytes(in)
			if err != nil {
				return 0, err
			}
			j, err := unmarshalJoint(v)
			b.Joints = append(b.Joints, j)
			return n, err
		case bakedFrames:
			if typ != protowire.BytesType {
				return 0, wrongType(num, typ)
			}
			v, n, err := consumeBytes(in)
			if err != nil {
				return 0, err
			}
			f, err := unmarshalFrame(v)
			frames = append(frames, f)
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decoding baked animation")
	}
	for i, j := range b.Joints {
		if j.Parent < -1 || j.Parent >= i {
			return nil, errors.Errorf("joint %d has parent %d", i, j.Parent)
		}
	}
	b.Frames = make([]md5.Pose, len(frames))
	for i, f := range frames {
		if len(f) != floatsPerJoint*len(b.Joints) {
			return nil, errors.Errorf("frame %d has %d values, want %d", i, len(f), floatsPerJoint*len(b.Joints))
		}
		p := make(md5.Pose, len(b.Joints))
		for k := range p {
			v := f[k*floatsPerJoint:]
			p[k] = md5.PoseJoint{
				Parent:      b.Joints[k].Parent,
				Position:    vec.Vec3{v[0], v[1], v[2]},
				Orientation: vec.Quat{X: v[3], Y: v[4], Z: v[5], W: v[6]},
			}
		}
		b.Frames[i] = p
	}
	return b, nil
}

func unmarshalJoint(in []byte) (Joint, error) {
	var j Joint
	err := fields(in, func(num protowire.Number, typ protowire.Type, in []byte) (int, error) {
		switch num {
		case jointName:
			if typ != protowire.BytesType {
				return 0, wrongType(num, typ)
			}
			v, n, err := consumeBytes(in)
			j.Name = string(v)
			return n, err
		case jointParent:
			if typ != protowire.VarintType {
				return 0, wrongType(num, typ)
			}
			v, n, err := consumeVarint(in)
			j.Parent = int(protowire.DecodeZigZag(v))
			return n, err
		}
		return -1, nil
	})
	return j, err
}

func unmarshalFrame(in []byte) ([]float32, error) {
	var f []float32
	err := fields(in, func(num protowire.Number, typ protowire.Type, in []byte) (int, error) {
		if num != frameValues {
			return -1, nil
		}
		switch typ {
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(in)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			f = append(f, math.Float32frombits(v))
			return n, nil
		case protowire.BytesType:
			packed, n, err := consumeBytes(in)
			if err != nil {
				return 0, err
			}
			if len(packed)%4 != 0 {
				return 0, errors.Errorf("packed values have %d bytes", len(packed))
			}
			for len(packed) > 0 {
				v, m := protowire.ConsumeFixed32(packed)
				f = append(f, math.Float32frombits(v))
				packed = packed[m:]
			}
			return n, nil
		}
		return 0, wrongType(num, typ)
	})
	return f, err
}

func (b *Baked) Write(path string) error {
	out, err := b.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0660); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func Read(path string) (*Baked, error) {
	in, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	b, err := Unmarshal(in)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return b, nil
}
