// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"fmt"
	"strconv"
)

var (
	developer bool

	supersample = boolInt{false, 4}

	frame int
	size  int

	seconds float64

	anim     string
	bake     string
	basedir  string
	mesh     string
	plane    string
	snapshot string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	register(flag.CommandLine)
}

func register(f *flag.FlagSet) {
	f.BoolVar(&developer, "developer", false, "print debug messages")

	f.Var(&supersample, "supersample", "render snapshots with supersampling, optional factor")

	f.IntVar(&frame, "frame", -1, "frame to print, negative prints none")
	f.IntVar(&size, "size", 512, "snapshot width and height in pixels")

	f.Float64Var(&seconds, "time", -1, "select the frame shown after this many seconds, negative is unset")

	f.StringVar(&anim, "anim", "", "md5anim to load")
	f.StringVar(&bake, "bake", "", "write the resolved frames of the animation to this file")
	f.StringVar(&basedir, "basedir", ".", "asset directory, *.pk4 inside are mounted")
	f.StringVar(&mesh, "mesh", "", "md5mesh to load")
	f.StringVar(&plane, "plane", "xz", "snapshot plane, xy or xz")
	f.StringVar(&snapshot, "snapshot", "", "write a picture of the pose to this .png or .webp file")
}

func BaseDirectory() string {
	return basedir
}

func Mesh() string {
	return mesh
}

func Anim() string {
	return anim
}

func Bake() string {
	return bake
}

func Snapshot() string {
	return snapshot
}

func Plane() string {
	return plane
}

func Frame() int {
	return frame
}

// Time returns the -time value and whether it was given.
func Time() (float64, bool) {
	return seconds, seconds >= 0
}

func Size() int {
	return size
}

// Supersample returns the supersampling factor, 1 if disabled.
func Supersample() int {
	if !supersample.set {
		return 1
	}
	return supersample.num
}

func Developer() bool {
	return developer
}
