// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"strings"
	"testing"
)

const testMesh = `MD5Version 10
commandline "keepmesh"

numJoints 2
numMeshes 1

joints {
	"origin"	-1 ( 0 0 0 ) ( 0 0 0 )		//
	"arm"	0 ( 1 0 0 ) ( 0 0 -0.7071068 )		// origin
}

mesh {
	// meshes: body
	shader "models/body"

	numverts 3
	vert 0 ( 0 0 ) 0 1
	vert 2 ( 1 1 ) 2 2
	vert 1 ( 0.25 0.75 ) 1 1

	numtris 1
	tri 0 0 1 2

	numweights 4
	weight 0 0 1 ( 0 0 0 )
	weight 1 1 1 ( 1 0 0 )
	weight 2 0 0.5 ( 2 0 0 )
	weight 3 1 0.5 ( 0 0 0 )
}
`

// flags 41: Tx Qx Qz
const testAnim = `MD5Version 10
commandline "keepanim"

numFrames 2
numJoints 2
frameRate 24
numAnimatedComponents 3

hierarchy {
	"origin"	-1 0 0	//
	"arm"	0 41 0	// origin ( Tx Qx Qz )
}

bounds {
	( -1 -1 -1 ) ( 1 1 1 )
	( -1 -1 -1 ) ( 2 1 1 )
}

baseframe {
	( 0 0 0 ) ( 0 0 0 )
	( 1 0 0 ) ( 0 0 -0.7071068 )
}

frame 1 {
	2 0
	0
}

frame 0 {
	1 0 -0.7071068
}
`

func readTestMesh(t *testing.T, src string) *MeshInfo {
	t.Helper()
	m, err := ReadMesh("test.md5mesh", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadMesh: %v", err)
	}
	return m
}

func readTestAnim(t *testing.T, src string) *AnimInfo {
	t.Helper()
	a, err := ReadAnim("test.md5anim", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadAnim: %v", err)
	}
	return a
}
