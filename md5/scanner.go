// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"md5view/math/vec"
)

const (
	maxLineLength = 1024 * 1024
	// maxCount bounds every declared count so that tables can be
	// allocated up front.
	maxCount = 1 << 20
)

// scanner hands out the non blank lines of a md5 file one at a time and
// lets the readers consume the items of the current line.
type scanner struct {
	name  string
	s     *bufio.Scanner
	line  int
	items []item
	pos   int
	// pending is set while the current line has not been consumed yet.
	pending bool
}

func newScanner(name string, r io.Reader) *scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &scanner{
		name: name,
		s:    s,
	}
}

// next makes the next non blank line current. It returns false at the end
// of the input. Lines holding only a comment count as blank.
func (s *scanner) next() (bool, error) {
	if s.pending {
		return true, nil
	}
	for s.s.Scan() {
		s.line++
		items := lexLine(s.s.Text())
		if len(items) == 0 {
			continue
		}
		if last := items[len(items)-1]; last.typ == itemError {
			return false, s.formatf("%s", last.val)
		}
		s.items = items
		s.pos = 0
		s.pending = true
		return true, nil
	}
	if err := s.s.Err(); err != nil {
		return false, s.errorf(ErrFormat, err, "reading line %d", s.line+1)
	}
	return false, nil
}

// mustNext is next but treats the end of the input as a format error.
func (s *scanner) mustNext(what string) error {
	ok, err := s.next()
	if err != nil {
		return err
	}
	if !ok {
		return s.formatf("unexpected end of file, expected %s", what)
	}
	return nil
}

// peek returns the value of the next item of the current line or "".
func (s *scanner) peek() string {
	if s.pos >= len(s.items) {
		return ""
	}
	return s.items[s.pos].val
}

func (s *scanner) done() bool {
	return s.pos >= len(s.items)
}

// skipLine consumes the current line without looking at the remaining items.
func (s *scanner) skipLine() {
	s.pending = false
	s.pos = len(s.items)
}

// endLine consumes the current line and fails if it has unread items.
func (s *scanner) endLine() error {
	if !s.done() {
		return s.formatf("unexpected %v at end of line", s.items[s.pos])
	}
	s.pending = false
	return nil
}

func (s *scanner) item(what string) (item, error) {
	if s.done() {
		return item{}, s.formatf("unexpected end of line, expected %s", what)
	}
	i := s.items[s.pos]
	s.pos++
	return i, nil
}

// keyword consumes the literal word lit.
func (s *scanner) keyword(lit string) error {
	i, err := s.item(strconv.Quote(lit))
	if err != nil {
		return err
	}
	if i.val != lit {
		return s.formatf("expected %q, got %v", lit, i)
	}
	return nil
}

func (s *scanner) punct(c string) error {
	i, err := s.item(c)
	if err != nil {
		return err
	}
	if i.typ != itemChar || i.val != c {
		return s.formatf("expected %q, got %v", c, i)
	}
	return nil
}

// openBlock consumes `keyword {` and finishes the line. The brace may be
// placed alone on the following line.
func (s *scanner) openBlock(keyword string) error {
	if err := s.mustNext(keyword); err != nil {
		return err
	}
	if err := s.keyword(keyword); err != nil {
		return err
	}
	return s.openBrace()
}

func (s *scanner) openBrace() error {
	if s.done() {
		s.pending = false
		if err := s.mustNext("{"); err != nil {
			return err
		}
	}
	if err := s.punct("{"); err != nil {
		return err
	}
	return s.endLine()
}

// closing reports whether the current line closes a block. A closing
// line is consumed.
func (s *scanner) closing() (bool, error) {
	if s.peek() != "}" || s.items[s.pos].typ != itemChar {
		return false, nil
	}
	s.pos++
	return true, s.endLine()
}

// closeBlock requires the next line to be a lone "}".
func (s *scanner) closeBlock(block string) error {
	if err := s.mustNext("}"); err != nil {
		return err
	}
	ok, err := s.closing()
	if err != nil {
		return err
	}
	if !ok {
		return s.formatf("expected \"}\" closing %s, got %q", block, s.peek())
	}
	return nil
}

// str returns a quoted string without the quotes. Unquoted words are
// accepted as well.
func (s *scanner) str(what string) (string, error) {
	i, err := s.item(what)
	if err != nil {
		return "", err
	}
	switch i.typ {
	case itemString:
		return strings.TrimSuffix(strings.TrimPrefix(i.val, `"`), `"`), nil
	case itemWord:
		return i.val, nil
	}
	return "", s.formatf("expected %s, got %v", what, i)
}

func (s *scanner) integer(what string) (int, error) {
	i, err := s.item(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(i.val)
	if i.typ != itemWord || err != nil {
		return 0, s.formatf("expected integer %s, got %v", what, i)
	}
	return v, nil
}

func (s *scanner) float(what string) (float32, error) {
	i, err := s.item(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(i.val, 32)
	if i.typ != itemWord || err != nil {
		return 0, s.formatf("expected number %s, got %v", what, i)
	}
	return float32(v), nil
}

// floats reads `( a b ... )` with n numbers.
func (s *scanner) floats(what string, n int) ([]float32, error) {
	if err := s.punct("("); err != nil {
		return nil, err
	}
	r := make([]float32, n)
	for i := range r {
		v, err := s.float(what)
		if err != nil {
			return nil, err
		}
		r[i] = v
	}
	if err := s.punct(")"); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *scanner) vec3(what string) (vec.Vec3, error) {
	f, err := s.floats(what, 3)
	if err != nil {
		return vec.Vec3{}, err
	}
	return vec.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

// countLine reads a `keyword N` line with a non negative N.
func (s *scanner) countLine(keyword string) (int, error) {
	if err := s.mustNext(keyword); err != nil {
		return 0, err
	}
	if err := s.keyword(keyword); err != nil {
		return 0, err
	}
	n, err := s.integer(keyword)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, s.formatf("negative %s %d", keyword, n)
	}
	if n > maxCount {
		return 0, s.rangef("%s %d exceeds %d", keyword, n, maxCount)
	}
	return n, s.endLine()
}

// version reads the `MD5Version 10` line.
func (s *scanner) version() error {
	if err := s.mustNext(versionKeyword); err != nil {
		return err
	}
	if err := s.keyword(versionKeyword); err != nil {
		return err
	}
	v, err := s.integer("version")
	if err != nil {
		return err
	}
	if v != Version {
		return s.errorf(ErrUnsupportedVersion, nil, "wrong version number (%d should be %d)", v, Version)
	}
	return s.endLine()
}

// commandLine skips the optional `commandline "..."` line.
func (s *scanner) commandLine() error {
	ok, err := s.next()
	if err != nil || !ok {
		return err
	}
	if s.peek() == commandLineKeyword {
		s.skipLine()
	}
	return nil
}

func (s *scanner) errorf(kind error, cause error, format string, args ...any) error {
	return &ParseError{
		File: s.name,
		Line: s.line,
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Err:  cause,
	}
}

func (s *scanner) formatf(format string, args ...any) error {
	return s.errorf(ErrFormat, nil, format, args...)
}

func (s *scanner) rangef(format string, args ...any) error {
	return s.errorf(ErrIndexOutOfRange, nil, format, args...)
}
