// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Pack is a read only pk4 archive. pk4 files are zip archives, the names
// inside are compared case sensitive with '/' as separator.
type Pack struct {
	r     *zip.ReadCloser
	files map[string]*zip.File
	dirs  map[string]bool
	name  string
}

type file struct {
	*bytes.Reader
}

func (*file) Close() error {
	return nil
}

// Open returns the contents of the named entry. The whole entry is
// decompressed so the result can seek.
func (p *Pack) Open(name string) (io.ReadSeekCloser, error) {
	f, ok := p.files[clean(name)]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: %s", p.name, name)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: %s", p.name, name)
	}
	return &file{bytes.NewReader(b)}, nil
}

// Stat returns the info of an entry or of a directory implied by the
// entry names.
func (p *Pack) Stat(name string) (fs.FileInfo, error) {
	n := clean(name)
	if f, ok := p.files[n]; ok {
		return f.FileInfo(), nil
	}
	if p.dirs[n] {
		return dirInfo(path.Base(n)), nil
	}
	return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
}

// ReadDir lists the entries and implied directories directly below dir.
func (p *Pack) ReadDir(dir string) ([]fs.FileInfo, error) {
	d := clean(dir)
	if !p.dirs[d] {
		return nil, &os.PathError{Op: "readdir", Path: dir, Err: os.ErrNotExist}
	}
	parent := func(n string) string {
		if pd := path.Dir(n); pd != "." {
			return pd
		}
		return ""
	}
	var r []fs.FileInfo
	for n := range p.dirs {
		if n != "" && parent(n) == d {
			r = append(r, dirInfo(path.Base(n)))
		}
	}
	for n, f := range p.files {
		if parent(n) == d {
			r = append(r, f.FileInfo())
		}
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name() < r[j].Name() })
	return r, nil
}

// Names returns the names of all entries.
func (p *Pack) Names() []string {
	r := make([]string, 0, len(p.files))
	for n := range p.files {
		r = append(r, n)
	}
	return r
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	return p.r.Close()
}

func clean(name string) string {
	// inside a pack file there is no 'root'. all files are relative to '.'
	n := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimPrefix(n, "/")
}

func (p *Pack) init() error {
	p.files = make(map[string]*zip.File, len(p.r.File))
	p.dirs = map[string]bool{"": true}
	for _, f := range p.r.File {
		if strings.HasSuffix(f.Name, "/") {
			p.dirs[clean(f.Name)] = true
			continue
		}
		n := clean(f.Name)
		if p.files[n] != nil {
			return errors.Errorf("%s: files in pack are not unique: %s", p.name, n)
		}
		p.files[n] = f
		for d := path.Dir(n); d != "."; d = path.Dir(d) {
			p.dirs[d] = true
		}
	}
	return nil
}

func NewPackReader(name string) (*Pack, error) {
	r, err := zip.OpenReader(name)
	if err != nil {
		return nil, errors.Wrapf(err, "not a pk4: %s", name)
	}
	p := &Pack{r: r, name: name}
	if err := p.init(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

type dirInfo string

func (d dirInfo) Name() string {
	return string(d)
}
func (dirInfo) Size() int64 {
	return 0
}
func (dirInfo) Mode() fs.FileMode {
	return fs.ModeDir | 0555
}
func (dirInfo) ModTime() time.Time {
	return time.Time{}
}
func (dirInfo) IsDir() bool {
	return true
}
func (dirInfo) Sys() any {
	return nil
}
