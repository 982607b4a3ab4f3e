// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"md5view/math/vec"
)

func TestReadAnim(t *testing.T) {
	a := readTestAnim(t, testAnim)
	if a.FrameRate != 24 || a.NumFrames() != 2 || a.AnimatedComponents != 3 {
		t.Errorf("header = rate %d, frames %d, components %d", a.FrameRate, a.NumFrames(), a.AnimatedComponents)
	}
	if len(a.Joints) != 2 || len(a.BaseFrame) != 2 {
		t.Fatalf("got %d joints, %d baseframe joints", len(a.Joints), len(a.BaseFrame))
	}
	arm := a.Joints[1]
	if arm.Name != "arm" || arm.Parent != 0 || arm.Flags != FlagTX|FlagQX|FlagQZ || arm.StartIndex != 0 {
		t.Errorf("joint 1 = %v", arm)
	}
	if p := a.BaseFrame[1].Position; p != (vec.Vec3{X: 1}) {
		t.Errorf("baseframe 1 position = %v", p)
	}
	if w := a.BaseFrame[0].Orientation.W; w != -1 {
		t.Errorf("baseframe 0 w = %v, want -1", w)
	}
}

func TestFramesStoredByNumber(t *testing.T) {
	a := readTestAnim(t, testAnim)
	if f := a.Frames[0]; len(f) != 3 || f[0] != 1 || f[2] != -0.7071068 {
		t.Errorf("frame 0 = %v", f)
	}
	// frame 1 is spread over two lines and comes first in the file
	if f := a.Frames[1]; len(f) != 3 || f[0] != 2 || f[1] != 0 || f[2] != 0 {
		t.Errorf("frame 1 = %v", f)
	}
}

func TestComponentCursor(t *testing.T) {
	a := readTestAnim(t, testAnim)
	n := 0
	for _, j := range a.Joints {
		n += j.ComponentCount()
	}
	if n != a.AnimatedComponents {
		t.Errorf("joints use %d components, want %d", n, a.AnimatedComponents)
	}
	if c := (JointInfo{Flags: 63}).ComponentCount(); c != 6 {
		t.Errorf("ComponentCount(63) = %d", c)
	}
}

func TestFrameClosedOnDataLine(t *testing.T) {
	src := strings.Replace(testAnim, "1 0 -0.7071068\n}", "1 0 -0.7071068 }", 1)
	a := readTestAnim(t, src)
	if len(a.Frames[0]) != 3 {
		t.Errorf("frame 0 = %v", a.Frames[0])
	}
}

func TestTrailingCommentAllowed(t *testing.T) {
	a := readTestAnim(t, testAnim+"\n// end of walk\n\n")
	if a.NumFrames() != 2 {
		t.Errorf("NumFrames() = %d", a.NumFrames())
	}
}

func TestParseAnimFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.md5anim")
	if err := os.WriteFile(path, []byte(testAnim), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := ParseAnim(path)
	if err != nil {
		t.Fatalf("ParseAnim: %v", err)
	}
	if a.NumFrames() != 2 {
		t.Errorf("NumFrames() = %d", a.NumFrames())
	}
	if _, err := ParseAnim(path + ".missing"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ParseAnim(missing) = %v, want ErrFileNotFound", err)
	}
}

func TestReadAnimErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind error
	}{
		{"version", strings.Replace(testAnim, "MD5Version 10", "MD5Version 9", 1), ErrUnsupportedVersion},
		{"numFrames keyword", strings.Replace(testAnim, "numFrames 2", "frames 2", 1), ErrFormat},
		{"hierarchy keyword", strings.Replace(testAnim, "hierarchy {", "joints {", 1), ErrFormat},
		{"bounds keyword", strings.Replace(testAnim, "bounds {", "box {", 1), ErrFormat},
		{"baseframe keyword", strings.Replace(testAnim, "baseframe {", "base {", 1), ErrFormat},
		{"frame keyword", strings.Replace(testAnim, "frame 1 {", "frames 1 {", 1), ErrFormat},
		{"flags", strings.Replace(testAnim, `"arm"	0 41 0`, `"arm"	0 105 0`, 1), ErrFormat},
		{"component sum", strings.Replace(testAnim, "numAnimatedComponents 3", "numAnimatedComponents 4", 1), ErrFormat},
		{"start index", strings.Replace(testAnim, `"arm"	0 41 0`, `"arm"	0 41 1`, 1), ErrIndexOutOfRange},
		{"parent order", strings.Replace(testAnim, `"arm"	0 41`, `"arm"	1 41`, 1), ErrFormat},
		{"duplicate joint", strings.Replace(testAnim, `"arm"`, `"origin"`, 1), ErrFormat},
		{"too few joints", strings.Replace(testAnim, "numJoints 2", "numJoints 3", 1), ErrFormat},
		{"too few baseframe", strings.Replace(testAnim, "\t( 1 0 0 ) ( 0 0 -0.7071068 )\n", "", 1), ErrFormat},
		{"frame range", strings.Replace(testAnim, "frame 1 {", "frame 2 {", 1), ErrIndexOutOfRange},
		{"duplicate frame", strings.Replace(testAnim, "frame 1 {", "frame 0 {", 1), ErrFormat},
		{"short frame", strings.Replace(testAnim, "\t2 0\n", "\t2\n", 1), ErrFormat},
		{"long frame", strings.Replace(testAnim, "\t2 0\n", "\t2 0 0\n", 1), ErrFormat},
		{"bad float", strings.Replace(testAnim, "\t2 0\n", "\t2 x\n", 1), ErrFormat},
		{"missing frame", testAnim[:strings.Index(testAnim, "frame 0 {")], ErrFormat},
		{"huge numFrames", strings.Replace(testAnim, "numFrames 2", "numFrames 1152921504606846976", 1), ErrIndexOutOfRange},
		{"huge numJoints", strings.Replace(testAnim, "numJoints 2", "numJoints 1152921504606846976", 1), ErrIndexOutOfRange},
		{"huge numAnimatedComponents", strings.Replace(testAnim, "numAnimatedComponents 3", "numAnimatedComponents 1152921504606846976", 1), ErrIndexOutOfRange},
		{"extra frame", testAnim + "frame 1 {\n\t9 9\n}\n", ErrFormat},
		{"trailing line", testAnim + "foo bar baz\n", ErrFormat},
		{"unclosed bounds", testAnim[:strings.Index(testAnim, "}\n\nbaseframe")], ErrFormat},
	}
	for _, tc := range tests {
		_, err := ReadAnim("test.md5anim", strings.NewReader(tc.src))
		if !errors.Is(err, tc.kind) {
			t.Errorf("%s: ReadAnim = %v, want %v", tc.name, err, tc.kind)
		}
	}
}
