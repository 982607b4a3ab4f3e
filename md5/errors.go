// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrFormat             = errors.New("format error")
	ErrIndexOutOfRange    = errors.New("index out of range")
)

// ParseError describes a failure while reading a md5mesh or md5anim file.
// Line is 0 if the failure is not tied to a line.
type ParseError struct {
	File string
	Line int
	Kind error
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	s := e.File
	if e.Line > 0 {
		s = fmt.Sprintf("%s:%d", s, e.Line)
	}
	s = fmt.Sprintf("%s: %v: %s", s, e.Kind, e.Msg)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// rangeErrorf is used outside of parsing where no file context exists.
func rangeErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrIndexOutOfRange, format, args...)
}

func formatErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrFormat, format, args...)
}
