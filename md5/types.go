// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"fmt"

	"md5view/math/mat"
	"md5view/math/vec"
)

const (
	Version            = 10
	versionKeyword     = "MD5Version"
	commandLineKeyword = "commandline"
)

// Animated component flags of a JointInfo. The bit order is also the order
// in which the values appear in the frame data.
const (
	FlagTX = 1 << iota
	FlagTY
	FlagTZ
	FlagQX
	FlagQY
	FlagQZ

	flagMask = 1<<iota - 1
)

// Joint is a joint of the bind skeleton relative to its parent.
type Joint struct {
	Name        string
	Parent      int // -1 for the root
	Position    vec.Vec3
	Orientation vec.Quat
	// Absolute transforms joint space to object space.
	Absolute *mat.Matrix
}

func (j Joint) String() string {
	return fmt.Sprintf("%s %d %v %v", j.Name, j.Parent, j.Position, j.Orientation)
}

type Vertex struct {
	U, V float32
	// StartWeight is the index of the first of WeightCount weights.
	StartWeight int
	WeightCount int
	// Position is the bind pose position in object space.
	Position vec.Vec3
}

type Triangle [3]int

type Weight struct {
	Joint    int
	Bias     float32
	Position vec.Vec3 // in joint space
}

type Mesh struct {
	Shader    string
	Vertices  []Vertex
	Triangles []Triangle
	Weights   []Weight
}

type MeshInfo struct {
	Joints []Joint
	Meshes []Mesh
}

// JointInfo is a joint of the animation hierarchy.
type JointInfo struct {
	Name   string
	Parent int
	Flags  int
	// StartIndex is the offset of the first animated component of this
	// joint inside a Frame.
	StartIndex int
}

func (j JointInfo) String() string {
	return fmt.Sprintf("%s %d %06b %d", j.Name, j.Parent, j.Flags, j.StartIndex)
}

// ComponentCount returns the number of animated components of the joint.
func (j JointInfo) ComponentCount() int {
	n := 0
	for f := j.Flags & flagMask; f != 0; f &= f - 1 {
		n++
	}
	return n
}

// BaseframeJoint is the rest pose of a joint relative to its parent.
type BaseframeJoint struct {
	Position    vec.Vec3
	Orientation vec.Quat
}

func (j BaseframeJoint) String() string {
	return fmt.Sprintf("%v %v", j.Position, j.Orientation)
}

// Frame holds the animated components of all joints of one frame.
type Frame []float32

type AnimInfo struct {
	FrameRate int
	// AnimatedComponents is the length of every Frame.
	AnimatedComponents int
	Joints             []JointInfo
	BaseFrame          []BaseframeJoint
	Frames             []Frame
}

func (a *AnimInfo) NumFrames() int {
	return len(a.Frames)
}

// PoseJoint is a joint of a resolved skeleton in object space.
type PoseJoint struct {
	Parent      int
	Position    vec.Vec3
	Orientation vec.Quat
}

func (j PoseJoint) String() string {
	return fmt.Sprintf("%d %v %v", j.Parent, j.Position, j.Orientation)
}

// Pose is the skeleton of one instant, indexed like AnimInfo.Joints.
type Pose []PoseJoint
