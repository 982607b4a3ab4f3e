// SPDX-License-Identifier: GPL-2.0-or-later

// Package snapshot draws an orthographic picture of a skeleton and its
// skinned vertices.
package snapshot

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"md5view/filesystem"
	qmath "md5view/math"
	"md5view/math/vec"
	"md5view/md5"
)

type Plane int

const (
	PlaneXY Plane = iota // looking down the z axis
	PlaneXZ              // looking along the y axis, z up
)

const maxSupersample = 8

type Options struct {
	Size        int
	Supersample int
	Plane       Plane
	// Margin is the fraction of Size left empty on each side.
	Margin     float32
	LineWidth  float32
	PointSize  float32
	Background color.Color
	Bone       color.Color
	Point      color.Color
}

func DefaultOptions() Options {
	return Options{
		Size:        512,
		Supersample: 4,
		Plane:       PlaneXZ,
		Margin:      0.05,
		LineWidth:   2,
		PointSize:   2,
		Background:  color.RGBA{0x20, 0x20, 0x20, 0xff},
		Bone:        color.RGBA{0xff, 0xc0, 0x40, 0xff},
		Point:       color.RGBA{0x60, 0xc0, 0xff, 0xff},
	}
}

type point struct {
	x, y float32
}

type projection struct {
	plane  Plane
	scale  float32
	cx, cy float32
	half   float32
}

func (p *projection) flat(v vec.Vec3) point {
	if p.plane == PlaneXZ {
		return point{v.X, v.Z}
	}
	return point{v.X, v.Y}
}

// screen maps v into pixel coordinates, y grows downwards.
func (p *projection) screen(v vec.Vec3) point {
	f := p.flat(v)
	return point{
		x: p.half + (f.x-p.cx)*p.scale,
		y: p.half - (f.y-p.cy)*p.scale,
	}
}

func fit(plane Plane, size, margin float32, pose md5.Pose, points []vec.Vec3) *projection {
	p := &projection{plane: plane, half: size / 2, scale: 1}
	first := true
	var mins, maxs point
	add := func(v vec.Vec3) {
		f := p.flat(v)
		if first {
			mins, maxs = f, f
			first = false
			return
		}
		mins = point{min(mins.x, f.x), min(mins.y, f.y)}
		maxs = point{max(maxs.x, f.x), max(maxs.y, f.y)}
	}
	for _, j := range pose {
		add(j.Position)
	}
	for _, v := range points {
		add(v)
	}
	if first {
		return p
	}
	p.cx = (mins.x + maxs.x) / 2
	p.cy = (mins.y + maxs.y) / 2
	extent := max(maxs.x-mins.x, maxs.y-mins.y)
	if extent > 0 {
		p.scale = size * (1 - 2*margin) / extent
	}
	return p
}

func line(z *vector.Rasterizer, a, b point, width float32) {
	dx, dy := b.x-a.x, b.y-a.y
	l := math32.Sqrt(dx*dx + dy*dy)
	if l == 0 {
		dot(z, a, width)
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(a.x+nx, a.y+ny)
	z.LineTo(b.x+nx, b.y+ny)
	z.LineTo(b.x-nx, b.y-ny)
	z.LineTo(a.x-nx, a.y-ny)
	z.ClosePath()
}

func dot(z *vector.Rasterizer, c point, size float32) {
	r := size / 2
	z.MoveTo(c.x-r, c.y-r)
	z.LineTo(c.x+r, c.y-r)
	z.LineTo(c.x+r, c.y+r)
	z.LineTo(c.x-r, c.y+r)
	z.ClosePath()
}

// Render draws the bones of pose and points into a Size x Size image.
func Render(opts Options, pose md5.Pose, points []vec.Vec3) *image.RGBA {
	size := max(opts.Size, 1)
	ss := qmath.Clamp(1, opts.Supersample, maxSupersample)
	big := size * ss
	margin := qmath.Clamp(0, opts.Margin, 0.45)

	img := image.NewRGBA(image.Rect(0, 0, big, big))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	proj := fit(opts.Plane, float32(big), margin, pose, points)
	scale := float32(ss)

	if len(points) > 0 && opts.PointSize > 0 {
		z := vector.NewRasterizer(big, big)
		for _, v := range points {
			dot(z, proj.screen(v), opts.PointSize*scale)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(opts.Point), image.Point{})
	}
	if bones := pose.Bones(); len(bones) > 0 && opts.LineWidth > 0 {
		z := vector.NewRasterizer(big, big)
		for _, b := range bones {
			line(z, proj.screen(b[0]), proj.screen(b[1]), opts.LineWidth*scale)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(opts.Bone), image.Point{})
	}

	if ss == 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Save writes img as WebP or PNG depending on the extension of path.
func Save(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch filesystem.Ext(path) {
	case ".webp":
		encode = func(w io.Writer, img image.Image) error {
			return nativewebp.Encode(w, img, nil)
		}
	case ".png":
		encode = png.Encode
	default:
		return errors.Errorf("%s: unknown image format", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
