// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"sync"

	"github.com/pkg/errors"

	"md5view/conlog"
	"md5view/filesystem"
	"md5view/md5"
)

var (
	loaders = make(map[string]LoadFunc)
	cache   = make(map[string]Model)
	mutex   sync.Mutex
)

func init() {
	Register(".md5mesh", loadMesh)
	Register(".md5anim", loadAnim)
}

type LoadFunc func(string, filesystem.File) (Model, error)

// Register installs f as loader for files with the extension ext.
func Register(ext string, f LoadFunc) {
	mutex.Lock()
	defer mutex.Unlock()
	loaders[ext] = f
}

// Load returns the cached model name or loads it through the filesystem.
func Load(name string) (Model, error) {
	mutex.Lock()
	defer mutex.Unlock()
	if m, ok := cache[name]; ok {
		return m, nil
	}
	ext := filesystem.Ext(name)
	f, ok := loaders[ext]
	if !ok {
		return nil, errors.Errorf("file %s has an unknown file format", name)
	}
	file, err := filesystem.Open(name)
	if err != nil {
		return nil, &md5.ParseError{
			File: name,
			Kind: md5.ErrFileNotFound,
			Msg:  "could not open the file",
			Err:  err,
		}
	}
	defer file.Close()
	m, err := f(name, file)
	if err != nil {
		return nil, err
	}
	conlog.DPrintf("loaded %s as %v\n", name, m.ID())
	cache[name] = m
	return m, nil
}

func LoadMesh(name string) (*Mesh, error) {
	m, err := Load(name)
	if err != nil {
		return nil, err
	}
	mesh, ok := m.(*Mesh)
	if !ok {
		return nil, errors.Errorf("%s is not a md5mesh", name)
	}
	return mesh, nil
}

func LoadAnim(name string) (*Anim, error) {
	m, err := Load(name)
	if err != nil {
		return nil, err
	}
	anim, ok := m.(*Anim)
	if !ok {
		return nil, errors.Errorf("%s is not a md5anim", name)
	}
	return anim, nil
}

// Clear drops all cached models.
func Clear() {
	mutex.Lock()
	defer mutex.Unlock()
	clear(cache)
}

func loadMesh(name string, file filesystem.File) (Model, error) {
	info, err := md5.ReadMesh(name, file)
	if err != nil {
		return nil, err
	}
	return newMesh(name, info), nil
}

func loadAnim(name string, file filesystem.File) (Model, error) {
	info, err := md5.ReadAnim(name, file)
	if err != nil {
		return nil, err
	}
	return newAnim(name, info)
}
