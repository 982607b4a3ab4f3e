// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/tools/godoc/vfs"

	"md5view/conlog"
	"md5view/pack"
)

var (
	baseDir string
	ns      = vfs.NewNameSpace()
	packs   []*pack.Pack
	mutex   sync.RWMutex
)

type File = vfs.ReadSeekCloser

type packFileSystem struct {
	p *pack.Pack
}

func (p packFileSystem) Open(path string) (vfs.ReadSeekCloser, error) {
	return p.p.Open(path)
}

func (p packFileSystem) Lstat(path string) (os.FileInfo, error) {
	return p.p.Stat(path)
}

func (p packFileSystem) Stat(path string) (os.FileInfo, error) {
	return p.p.Stat(path)
}

func (p packFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	return p.p.ReadDir(path)
}

func (p packFileSystem) RootType(string) vfs.RootType {
	return ""
}

func (p packFileSystem) String() string {
	return p.p.String()
}

func BaseDir() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return baseDir
}

// UseBaseDir makes the files below dir and inside the pk4 archives in
// dir available. Loose files win over archives, archives later in
// lexical order win over earlier ones.
func UseBaseDir(dir string) error {
	names, err := filepath.Glob(filepath.Join(dir, "*.pk4"))
	if err != nil {
		return errors.Wrapf(err, "searching archives in %s", dir)
	}
	sort.Strings(names)
	var opened []*pack.Pack
	n := vfs.NameSpace{}
	for _, name := range names {
		p, err := pack.NewPackReader(name)
		if err != nil {
			for _, o := range opened {
				o.Close()
			}
			return err
		}
		conlog.DPrintf("added packfile %s\n", name)
		opened = append(opened, p)
		n.Bind("/", packFileSystem{p}, "/", vfs.BindBefore)
	}
	n.Bind("/", vfs.OS(dir), "/", vfs.BindBefore)

	mutex.Lock()
	defer mutex.Unlock()
	closePacks()
	baseDir = dir
	ns = n
	packs = opened
	return nil
}

// Use replaces the namespace with fsys.
func Use(fsys vfs.FileSystem) {
	n := vfs.NameSpace{}
	n.Bind("/", fsys, "/", vfs.BindReplace)
	mutex.Lock()
	defer mutex.Unlock()
	closePacks()
	baseDir = ""
	ns = n
}

// Close releases the archives opened by UseBaseDir.
func Close() {
	mutex.Lock()
	defer mutex.Unlock()
	closePacks()
	ns = vfs.NewNameSpace()
}

func closePacks() {
	for _, p := range packs {
		p.Close()
	}
	packs = nil
}

func Stat(path string) (os.FileInfo, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	return ns.Stat(filepath.ToSlash(filepath.Join("/", path)))
}

func Open(name string) (File, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	return ns.Open(filepath.ToSlash(filepath.Join("/", name)))
}

func ReadFile(name string) ([]byte, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	return vfs.ReadFile(ns, filepath.ToSlash(filepath.Join("/", name)))
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return strings.ToLower(path[i:])
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
