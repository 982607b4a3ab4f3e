// SPDX-License-Identifier: GPL-2.0-or-later

package viewer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"md5view/bake"
	"md5view/conlog"
	"md5view/md5"
)

const mesh = `MD5Version 10
commandline ""
numJoints 2
numMeshes 1
joints {
	"root" -1 ( 0 0 0 ) ( 0 0 0 )
	"arm" 0 ( 0 0 4 ) ( 0 0 0 )
}
mesh {
	shader "body"
	numverts 3
	vert 0 ( 0 0 ) 0 1
	vert 1 ( 1 0 ) 1 1
	vert 2 ( 0 1 ) 2 1
	numtris 1
	tri 0 0 1 2
	numweights 3
	weight 0 0 1 ( 1 0 0 )
	weight 1 1 1 ( 1 0 0 )
	weight 2 1 1 ( -1 0 0 )
}
`

const anim = `MD5Version 10
commandline ""
numFrames 3
numJoints 2
frameRate 10
numAnimatedComponents 1
hierarchy {
	"root" -1 0 0
	"arm" 0 4 0
}
bounds {
	( 0 0 0 ) ( 0 0 4 )
	( 0 0 0 ) ( 0 0 5 )
	( 0 0 0 ) ( 0 0 6 )
}
baseframe {
	( 0 0 0 ) ( 0 0 0 )
	( 0 0 4 ) ( 0 0 0 )
}
frame 0 {
	4
}
frame 1 {
	5
}
frame 2 {
	6
}
`

const otherAnim = `MD5Version 10
numFrames 1
numJoints 1
frameRate 10
numAnimatedComponents 0
hierarchy {
	"pelvis" -1 0 0
}
bounds {
	( 0 0 0 ) ( 0 0 0 )
}
baseframe {
	( 0 0 0 ) ( 0 0 0 )
}
frame 0 {
}
`

func setup(t *testing.T) (string, *string) {
	t.Helper()
	dir := t.TempDir()
	for n, c := range map[string]string{
		"body.md5mesh":  mesh,
		"walk.md5anim":  anim,
		"other.md5anim": otherAnim,
	} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(c), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := new(string)
	conlog.SetPrintf(func(s string, a ...any) {
		*out += fmt.Sprintf(s, a...)
	})
	return dir, out
}

func TestRunSummary(t *testing.T) {
	dir, out := setup(t)
	err := Run(Config{BaseDir: dir, Mesh: "body.md5mesh", Anim: "walk.md5anim", Frame: -1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{
		"mesh body.md5mesh: 2 joints, 1 meshes\n",
		"  \"body\": 3 verts, 1 tris, 3 weights\n",
		"anim walk.md5anim: 2 joints, 3 frames at 10 fps (0.30s), 1 animated components\n",
	} {
		if !strings.Contains(*out, want) {
			t.Errorf("output %q does not contain %q", *out, want)
		}
	}
	if strings.Contains(*out, "frame ") {
		t.Errorf("output %q prints a frame", *out)
	}
}

func TestRunFrameAtTime(t *testing.T) {
	dir, out := setup(t)
	err := Run(Config{BaseDir: dir, Anim: "walk.md5anim", Frame: -1, Time: 0.25, UseTime: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(*out, "frame 2\n") {
		t.Errorf("output %q does not print frame 2", *out)
	}
	if !strings.Contains(*out, `"arm"`) {
		t.Errorf("output %q does not name the joints", *out)
	}
}

func TestRunBakeAndSnapshot(t *testing.T) {
	dir, _ := setup(t)
	out := t.TempDir()
	cfg := Config{
		BaseDir:     dir,
		Mesh:        "body.md5mesh",
		Anim:        "walk.md5anim",
		Frame:       1,
		Bake:        filepath.Join(out, "walk.bake"),
		Snapshot:    filepath.Join(out, "walk.png"),
		Size:        32,
		Supersample: 2,
	}
	if err := Run(cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := bake.Read(cfg.Bake)
	if err != nil {
		t.Fatalf("bake.Read: %v", err)
	}
	if len(b.Frames) != 3 || len(b.Joints) != 2 {
		t.Errorf("baked %d frames %d joints", len(b.Frames), len(b.Joints))
	}
	if fi, err := os.Stat(cfg.Snapshot); err != nil || fi.Size() == 0 {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	dir, _ := setup(t)
	if err := Run(Config{BaseDir: dir}); err == nil {
		t.Errorf("Run without files succeeded")
	}
	if err := Run(Config{BaseDir: dir, Mesh: "missing.md5mesh"}); !errors.Is(err, md5.ErrFileNotFound) {
		t.Errorf("Run(missing) = %v, want ErrFileNotFound", err)
	}
	err := Run(Config{BaseDir: dir, Mesh: "body.md5mesh", Anim: "other.md5anim", Frame: -1})
	if !errors.Is(err, md5.ErrFormat) {
		t.Errorf("Run(mismatch) = %v, want ErrFormat", err)
	}
	if err := Run(Config{BaseDir: dir, Mesh: "body.md5mesh", Frame: -1, Bake: filepath.Join(dir, "x")}); err == nil {
		t.Errorf("bake without animation succeeded")
	}
	err = Run(Config{BaseDir: dir, Mesh: "body.md5mesh", Frame: -1, Snapshot: filepath.Join(dir, "x.png"), Plane: "yz"})
	if err == nil {
		t.Errorf("snapshot with plane yz succeeded")
	}
}
