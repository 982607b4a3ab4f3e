// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"io"
	"os"

	"md5view/conlog"
)

// ParseAnim reads the md5anim file at path.
func ParseAnim(path string) (*AnimInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadAnim(path, f)
}

// ReadAnim reads a md5anim file from r. name is only used in errors.
func ReadAnim(name string, r io.Reader) (*AnimInfo, error) {
	ar := &animReader{s: newScanner(name, r)}
	return ar.read()
}

type animReader struct {
	s         *scanner
	numFrames int
	numJoints int
	anim      AnimInfo
}

func (r *animReader) read() (*AnimInfo, error) {
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	if err := r.readHierarchy(); err != nil {
		return nil, err
	}
	if err := r.skipBounds(); err != nil {
		return nil, err
	}
	if err := r.readBaseFrame(); err != nil {
		return nil, err
	}
	if err := r.readFrames(); err != nil {
		return nil, err
	}
	if err := r.end(); err != nil {
		return nil, err
	}
	return &r.anim, nil
}

func (r *animReader) readHeader() error {
	if err := r.s.version(); err != nil {
		return err
	}
	if err := r.s.commandLine(); err != nil {
		return err
	}
	var err error
	if r.numFrames, err = r.s.countLine("numFrames"); err != nil {
		return err
	}
	if r.numJoints, err = r.s.countLine("numJoints"); err != nil {
		return err
	}
	if r.anim.FrameRate, err = r.s.countLine("frameRate"); err != nil {
		return err
	}
	if r.anim.AnimatedComponents, err = r.s.countLine("numAnimatedComponents"); err != nil {
		return err
	}
	return nil
}

// readHierarchy reads `name parent flags startIndex` for every joint.
func (r *animReader) readHierarchy() error {
	if err := r.s.openBlock("hierarchy"); err != nil {
		return err
	}
	n := r.numJoints
	c := r.anim.AnimatedComponents
	r.anim.Joints = make([]JointInfo, 0, n)
	names := make(map[string]int)
	components := 0
	for {
		if err := r.s.mustNext("joint"); err != nil {
			return err
		}
		done, err := r.s.closing()
		if err != nil {
			return err
		}
		if done {
			break
		}
		i := len(r.anim.Joints)
		if i == n {
			return r.s.formatf("more than numJoints %d joints", n)
		}
		var j JointInfo
		if j.Name, err = r.s.str("joint name"); err != nil {
			return err
		}
		if j.Parent, err = r.s.integer("parent index"); err != nil {
			return err
		}
		if err := checkParent(r.s, i, j.Parent, n); err != nil {
			return err
		}
		if j.Flags, err = r.s.integer("flags"); err != nil {
			return err
		}
		if j.Flags&^flagMask != 0 {
			return r.s.formatf("joint %d has flags %#x outside of %#x", i, j.Flags, flagMask)
		}
		if j.StartIndex, err = r.s.integer("start index"); err != nil {
			return err
		}
		if err := r.s.endLine(); err != nil {
			return err
		}
		cc := j.ComponentCount()
		if j.StartIndex < 0 || j.StartIndex+cc > c {
			return r.s.rangef("joint %d uses components [%d,%d), numAnimatedComponents is %d",
				i, j.StartIndex, j.StartIndex+cc, c)
		}
		if o, ok := names[j.Name]; ok {
			return r.s.formatf("joint %q is defined twice (%d and %d)", j.Name, o, i)
		}
		names[j.Name] = i
		components += cc
		r.anim.Joints = append(r.anim.Joints, j)
	}
	if len(r.anim.Joints) != n {
		return r.s.formatf("got %d joints, numJoints is %d", len(r.anim.Joints), n)
	}
	if components != c {
		return r.s.formatf("joints animate %d components, numAnimatedComponents is %d", components, c)
	}
	return nil
}

// skipBounds consumes the bounds block. The per frame boxes are not kept.
func (r *animReader) skipBounds() error {
	if err := r.s.openBlock("bounds"); err != nil {
		return err
	}
	rows := 0
	for {
		if err := r.s.mustNext("bounds"); err != nil {
			return err
		}
		done, err := r.s.closing()
		if err != nil {
			return err
		}
		if done {
			break
		}
		r.s.skipLine()
		rows++
	}
	if rows != r.numFrames {
		conlog.Printf("%s: %d bounds for %d frames\n", r.s.name, rows, r.numFrames)
	}
	return nil
}

// readBaseFrame reads `( px py pz ) ( qx qy qz )` for every joint.
func (r *animReader) readBaseFrame() error {
	if err := r.s.openBlock("baseframe"); err != nil {
		return err
	}
	n := r.numJoints
	r.anim.BaseFrame = make([]BaseframeJoint, n)
	for i := range r.anim.BaseFrame {
		if err := r.s.mustNext("baseframe joint"); err != nil {
			return err
		}
		if r.s.peek() == "}" {
			return r.s.formatf("got %d baseframe joints, numJoints is %d", i, n)
		}
		p, err := r.s.vec3("position")
		if err != nil {
			return err
		}
		q, err := r.s.vec3("orientation")
		if err != nil {
			return err
		}
		if err := r.s.endLine(); err != nil {
			return err
		}
		r.anim.BaseFrame[i] = BaseframeJoint{
			Position:    p,
			Orientation: unitQuat(q),
		}
	}
	return r.s.closeBlock("baseframe")
}

// readFrames reads numFrames `frame F { ... }` blocks. The blocks are
// stored by their number, not by the order they appear in.
func (r *animReader) readFrames() error {
	r.anim.Frames = make([]Frame, r.numFrames)
	for range r.numFrames {
		if err := r.s.mustNext("frame"); err != nil {
			return err
		}
		if err := r.s.keyword("frame"); err != nil {
			return err
		}
		f, err := r.s.integer("frame number")
		if err != nil {
			return err
		}
		if f < 0 || f >= r.numFrames {
			return r.s.rangef("frame %d, want [0,%d)", f, r.numFrames)
		}
		if r.anim.Frames[f] != nil {
			return r.s.formatf("frame %d is defined twice", f)
		}
		if err := r.s.openBrace(); err != nil {
			return err
		}
		data, err := r.readFrameData(f)
		if err != nil {
			return err
		}
		r.anim.Frames[f] = data
	}
	return nil
}

// end fails if anything follows the last frame.
func (r *animReader) end() error {
	ok, err := r.s.next()
	if err != nil {
		return err
	}
	if ok {
		return r.s.formatf("unexpected %v after %d frames", r.s.items[r.s.pos], r.numFrames)
	}
	return nil
}

// readFrameData reads the floats of one frame up to the closing brace.
// Values may be spread over any number of lines.
func (r *animReader) readFrameData(f int) (Frame, error) {
	c := r.anim.AnimatedComponents
	data := make(Frame, 0, c)
	for {
		if err := r.s.mustNext("}"); err != nil {
			return nil, err
		}
		for !r.s.done() {
			if r.s.peek() == "}" {
				if _, err := r.s.closing(); err != nil {
					return nil, err
				}
				if len(data) != c {
					return nil, r.s.formatf("frame %d has %d components, numAnimatedComponents is %d", f, len(data), c)
				}
				return data, nil
			}
			if len(data) == c {
				return nil, r.s.formatf("frame %d has more than %d components", f, c)
			}
			v, err := r.s.float("component")
			if err != nil {
				return nil, err
			}
			data = append(data, v)
		}
		if err := r.s.endLine(); err != nil {
			return nil, err
		}
	}
}
