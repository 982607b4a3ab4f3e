// SPDX-License-Identifier: GPL-2.0-or-later

// Package viewer implements the md5view command: it loads a mesh and an
// animation, reports on them and optionally bakes or pictures a pose.
package viewer

import (
	"github.com/pkg/errors"

	"md5view/bake"
	"md5view/commandline"
	"md5view/conlog"
	"md5view/filesystem"
	"md5view/math/vec"
	"md5view/md5"
	"md5view/model"
	"md5view/snapshot"
)

type Config struct {
	BaseDir     string
	Mesh        string
	Anim        string
	Frame       int
	Time        float64
	UseTime     bool
	Bake        string
	Snapshot    string
	Plane       string
	Size        int
	Supersample int
}

func FromCommandline() Config {
	t, ok := commandline.Time()
	return Config{
		BaseDir:     commandline.BaseDirectory(),
		Mesh:        commandline.Mesh(),
		Anim:        commandline.Anim(),
		Frame:       commandline.Frame(),
		Time:        t,
		UseTime:     ok,
		Bake:        commandline.Bake(),
		Snapshot:    commandline.Snapshot(),
		Plane:       commandline.Plane(),
		Size:        commandline.Size(),
		Supersample: commandline.Supersample(),
	}
}

func Run(cfg Config) error {
	if cfg.Mesh == "" && cfg.Anim == "" {
		return errors.New("nothing to load, use -mesh or -anim")
	}
	if err := filesystem.UseBaseDir(cfg.BaseDir); err != nil {
		return err
	}
	defer filesystem.Close()
	defer model.Clear()

	var mesh *model.Mesh
	var anim *model.Anim
	if cfg.Mesh != "" {
		m, err := model.LoadMesh(cfg.Mesh)
		if err != nil {
			return err
		}
		mesh = m
		printMesh(m)
	}
	if cfg.Anim != "" {
		a, err := model.LoadAnim(cfg.Anim)
		if err != nil {
			return err
		}
		anim = a
		printAnim(a)
	}
	if mesh != nil && anim != nil {
		if err := anim.CheckJoints(mesh.MeshInfo); err != nil {
			return errors.Wrapf(err, "%s does not fit %s", anim.Name(), mesh.Name())
		}
	}

	frame := cfg.Frame
	if cfg.UseTime && anim != nil {
		frame = anim.FrameAt(cfg.Time)
	}
	pose, err := selectPose(mesh, anim, frame)
	if err != nil {
		return err
	}
	if frame >= 0 {
		printPose(frame, pose, anim, mesh)
	}

	if cfg.Bake != "" {
		if anim == nil {
			return errors.New("-bake needs an animation")
		}
		b, err := bake.Bake(anim.Name(), anim.AnimInfo)
		if err != nil {
			return err
		}
		if err := b.Write(cfg.Bake); err != nil {
			return err
		}
		conlog.Printf("baked %d frames to %s\n", len(b.Frames), cfg.Bake)
	}

	if cfg.Snapshot != "" {
		if err := takeSnapshot(cfg, mesh, pose); err != nil {
			return err
		}
		conlog.Printf("wrote %s\n", cfg.Snapshot)
	}
	return nil
}

// selectPose returns the pose of frame, frame 0 if frame is negative or the
// bind pose if there is no animation.
func selectPose(mesh *model.Mesh, anim *model.Anim, frame int) (md5.Pose, error) {
	if anim != nil {
		return anim.Pose(max(frame, 0))
	}
	if frame > 0 {
		return nil, errors.Errorf("frame %d needs an animation", frame)
	}
	return mesh.BindPose(), nil
}

func printMesh(m *model.Mesh) {
	conlog.Printf("mesh %s: %d joints, %d meshes\n", m.Name(), len(m.Joints), len(m.Meshes))
	for _, mm := range m.Meshes {
		conlog.Printf("  %q: %d verts, %d tris, %d weights\n",
			mm.Shader, len(mm.Vertices), len(mm.Triangles), len(mm.Weights))
	}
	conlog.DPrintf("  bounds %v %v\n", m.Mins(), m.Maxs())
}

func printAnim(a *model.Anim) {
	conlog.Printf("anim %s: %d joints, %d frames at %d fps (%.2fs), %d animated components\n",
		a.Name(), len(a.Joints), a.NumFrames(), a.FrameRate, a.Duration(), a.AnimatedComponents)
	conlog.DPrintf("  bounds %v %v\n", a.Mins(), a.Maxs())
}

func printPose(frame int, pose md5.Pose, anim *model.Anim, mesh *model.Mesh) {
	conlog.Printf("frame %d\n", frame)
	for i, j := range pose {
		name := ""
		switch {
		case anim != nil:
			name = anim.Joints[i].Name
		case mesh != nil:
			name = mesh.Joints[i].Name
		}
		conlog.Printf("  %3d %-16q %v\n", i, name, j)
	}
}

func takeSnapshot(cfg Config, mesh *model.Mesh, pose md5.Pose) error {
	opts := snapshot.DefaultOptions()
	opts.Size = cfg.Size
	opts.Supersample = cfg.Supersample
	switch cfg.Plane {
	case "xy":
		opts.Plane = snapshot.PlaneXY
	case "xz", "":
		opts.Plane = snapshot.PlaneXZ
	default:
		return errors.Errorf("unknown plane %q", cfg.Plane)
	}
	var points []vec.Vec3
	if mesh != nil {
		skinned, err := md5.SkinAll(mesh.MeshInfo, pose)
		if err != nil {
			return err
		}
		for _, s := range skinned {
			points = append(points, s...)
		}
	}
	return snapshot.Save(cfg.Snapshot, snapshot.Render(opts, pose, points))
}
