// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"io"
	"os"

	"md5view/conlog"
	"md5view/math/vec"
)

// ParseMesh reads the md5mesh file at path.
func ParseMesh(path string) (*MeshInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadMesh(path, f)
}

func openError(path string, err error) error {
	return &ParseError{
		File: path,
		Kind: ErrFileNotFound,
		Msg:  "could not open the file",
		Err:  err,
	}
}

// ReadMesh reads a md5mesh file from r. name is only used in errors.
func ReadMesh(name string, r io.Reader) (*MeshInfo, error) {
	mr := &meshReader{s: newScanner(name, r)}
	return mr.read()
}

type meshReader struct {
	s      *scanner
	joints []Joint
}

func (r *meshReader) read() (*MeshInfo, error) {
	if err := r.s.version(); err != nil {
		return nil, err
	}
	if err := r.s.commandLine(); err != nil {
		return nil, err
	}
	numJoints, err := r.s.countLine("numJoints")
	if err != nil {
		return nil, err
	}
	numMeshes, err := r.s.countLine("numMeshes")
	if err != nil {
		return nil, err
	}
	if err := r.readJoints(numJoints); err != nil {
		return nil, err
	}
	info := &MeshInfo{
		Joints: r.joints,
	}
	for {
		ok, err := r.s.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		m, err := r.readMesh()
		if err != nil {
			return nil, err
		}
		conlog.DPrintf("%s: mesh %q: %d verts, %d tris, %d weights\n",
			r.s.name, m.Shader, len(m.Vertices), len(m.Triangles), len(m.Weights))
		info.Meshes = append(info.Meshes, m)
	}
	if len(info.Meshes) != numMeshes {
		conlog.Printf("%s: numMeshes is %d but %d meshes were found\n", r.s.name, numMeshes, len(info.Meshes))
	}
	return info, nil
}

func (r *meshReader) readJoints(n int) error {
	if err := r.s.openBlock("joints"); err != nil {
		return err
	}
	r.joints = make([]Joint, 0, n)
	names := make(map[string]int)
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
		if len(r.joints) == n {
			return r.s.formatf("more than numJoints %d joints", n)
		}
		j, err := r.readJoint(len(r.joints), n)
		if err != nil {
			return err
		}
		if o, ok := names[j.Name]; ok {
			return r.s.formatf("joint %q is defined twice (%d and %d)", j.Name, o, len(r.joints))
		}
		names[j.Name] = len(r.joints)
		r.joints = append(r.joints, j)
	}
	if len(r.joints) != n {
		return r.s.formatf("got %d joints, numJoints is %d", len(r.joints), n)
	}
	return nil
}

// readJoint reads `name parent ( px py pz ) ( qx qy qz )`.
func (r *meshReader) readJoint(i, n int) (Joint, error) {
	var j Joint
	var err error
	if j.Name, err = r.s.str("joint name"); err != nil {
		return j, err
	}
	if j.Parent, err = r.s.integer("parent index"); err != nil {
		return j, err
	}
	if err := checkParent(r.s, i, j.Parent, n); err != nil {
		return j, err
	}
	if j.Position, err = r.s.vec3("position"); err != nil {
		return j, err
	}
	q, err := r.s.vec3("orientation")
	if err != nil {
		return j, err
	}
	if err := r.s.endLine(); err != nil {
		return j, err
	}
	j.Orientation = unitQuat(q)
	if j.Parent == -1 {
		j.Absolute = LocalTransform(j.Position, j.Orientation)
	} else {
		j.Absolute = compose(r.joints[j.Parent].Absolute, j.Position, j.Orientation)
	}
	return j, nil
}

// checkParent verifies that joint i of n has a parent that is already known.
func checkParent(s *scanner, i, parent, n int) error {
	if parent < -1 || parent >= n {
		return s.rangef("joint %d has parent %d, want [-1,%d)", i, parent, n)
	}
	if parent >= i {
		return s.formatf("joint %d has parent %d which does not precede it", i, parent)
	}
	return nil
}

func (r *meshReader) readMesh() (Mesh, error) {
	var m Mesh
	if err := r.s.keyword("mesh"); err != nil {
		return m, err
	}
	if err := r.s.openBrace(); err != nil {
		return m, err
	}
	if err := r.s.mustNext("shader"); err != nil {
		return m, err
	}
	if err := r.s.keyword("shader"); err != nil {
		return m, err
	}
	var err error
	if m.Shader, err = r.s.str("shader name"); err != nil {
		return m, err
	}
	if err := r.s.endLine(); err != nil {
		return m, err
	}

	numVerts, err := r.s.countLine("numverts")
	if err != nil {
		return m, err
	}
	m.Vertices = make([]Vertex, numVerts)
	if err := r.rows("vert", numVerts, func(i int) error {
		return r.readVertex(&m.Vertices[i])
	}); err != nil {
		return m, err
	}

	numTris, err := r.s.countLine("numtris")
	if err != nil {
		return m, err
	}
	m.Triangles = make([]Triangle, numTris)
	if err := r.rows("tri", numTris, func(i int) error {
		return r.readTriangle(&m.Triangles[i], numVerts)
	}); err != nil {
		return m, err
	}

	numWeights, err := r.s.countLine("numweights")
	if err != nil {
		return m, err
	}
	m.Weights = make([]Weight, numWeights)
	if err := r.rows("weight", numWeights, func(i int) error {
		return r.readWeight(&m.Weights[i])
	}); err != nil {
		return m, err
	}

	if err := r.s.closeBlock("mesh"); err != nil {
		return m, err
	}
	if err := r.bindPositions(&m); err != nil {
		return m, err
	}
	return m, nil
}

// rows reads n lines `keyword index ...`. The index selects the slot, rows
// may come in any order but every slot must be filled exactly once.
func (r *meshReader) rows(keyword string, n int, row func(i int) error) error {
	seen := make([]bool, n)
	for range n {
		if err := r.s.mustNext(keyword); err != nil {
			return err
		}
		if err := r.s.keyword(keyword); err != nil {
			return err
		}
		i, err := r.s.integer(keyword + " index")
		if err != nil {
			return err
		}
		if i < 0 || i >= n {
			return r.s.rangef("%s %d, want [0,%d)", keyword, i, n)
		}
		if seen[i] {
			return r.s.formatf("%s %d is defined twice", keyword, i)
		}
		seen[i] = true
		if err := row(i); err != nil {
			return err
		}
		if err := r.s.endLine(); err != nil {
			return err
		}
	}
	return nil
}

// readVertex reads `( u v ) startWeight weightCount`.
func (r *meshReader) readVertex(v *Vertex) error {
	uv, err := r.s.floats("texture coordinate", 2)
	if err != nil {
		return err
	}
	v.U, v.V = uv[0], uv[1]
	if v.StartWeight, err = r.s.integer("start weight"); err != nil {
		return err
	}
	if v.WeightCount, err = r.s.integer("weight count"); err != nil {
		return err
	}
	if v.StartWeight < 0 {
		return r.s.rangef("negative start weight %d", v.StartWeight)
	}
	if v.WeightCount < 1 {
		return r.s.formatf("weight count %d, want at least 1", v.WeightCount)
	}
	return nil
}

// readTriangle reads `a b c`.
func (r *meshReader) readTriangle(t *Triangle, numVerts int) error {
	for k := range t {
		i, err := r.s.integer("vertex index")
		if err != nil {
			return err
		}
		if i < 0 || i >= numVerts {
			return r.s.rangef("vertex %d, want [0,%d)", i, numVerts)
		}
		t[k] = i
	}
	return nil
}

// readWeight reads `jointIndex bias ( x y z )`.
func (r *meshReader) readWeight(w *Weight) error {
	var err error
	if w.Joint, err = r.s.integer("joint index"); err != nil {
		return err
	}
	if w.Joint < 0 || w.Joint >= len(r.joints) {
		return r.s.rangef("weight joint %d, want [0,%d)", w.Joint, len(r.joints))
	}
	if w.Bias, err = r.s.float("bias"); err != nil {
		return err
	}
	w.Position, err = r.s.vec3("weight position")
	return err
}

// bindPositions checks the weight ranges of the vertices and computes their
// bind pose positions.
func (r *meshReader) bindPositions(m *Mesh) error {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		if v.StartWeight > len(m.Weights) || v.WeightCount > len(m.Weights)-v.StartWeight {
			return r.s.rangef("vert %d uses %d weights from %d, mesh has %d",
				i, v.WeightCount, v.StartWeight, len(m.Weights))
		}
		var p vec.Vec3
		for _, w := range m.Weights[v.StartWeight : v.StartWeight+v.WeightCount] {
			wp := r.joints[w.Joint].Absolute.TransformPoint(w.Position)
			p = vec.Add(p, wp.Scale(w.Bias))
		}
		v.Position = p
	}
	return nil
}
