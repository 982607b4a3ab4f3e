// SPDX-License-Identifier: GPL-2.0-or-later

package md5

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type itemType int

const (
	itemError  itemType = iota
	itemString // quoted string includes quotes
	itemChar   // '{','}','(',')'
	itemWord
)

const eof = -1

type item struct {
	typ itemType
	val string
}

func (i item) String() string {
	if i.typ == itemError {
		return i.val
	}
	if len(i.val) > 10 {
		return fmt.Sprintf("%.10q...", i.val)
	}
	return fmt.Sprintf("%q", i.val)
}

type stateFn func(*lexer) stateFn

// lexer splits one line into items. The md5 formats never continue a
// token across lines so every line gets its own lexer.
type lexer struct {
	input string
	start int
	pos   int
	width int
	items []item
}

// lexLine returns the items of line. Comments are dropped.
// It returns an error item as the last element if the line is malformed.
func lexLine(line string) []item {
	l := &lexer{
		input: line,
	}
	for state := lexAction; state != nil; {
		state = state(l)
	}
	return l.items
}

func (l *lexer) emit(t itemType) {
	l.items = append(l.items, item{t, l.input[l.start:l.pos]})
	l.start = l.pos
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	return r
}

func (l *lexer) ignore() {
	l.start = l.pos
}

func (l *lexer) backup() {
	l.pos -= l.width
}

func (l *lexer) errorf(format string, args ...any) stateFn {
	l.items = append(l.items, item{
		itemError,
		fmt.Sprintf(format, args...),
	})
	return nil
}

func lexAction(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eof || isEndOfLine(r):
		return nil
	case isSpace(r):
		l.ignore()
		return lexAction
	case r == '"':
		return lexQuote
	case isPunct(r):
		l.emit(itemChar)
		return lexAction
	case r == '/':
		// special look-ahead so we don't break l.backup().
		if strings.HasPrefix(l.input[l.pos:], "/") {
			// just drop the rest of this line
			return nil
		}
		fallthrough
	case isWordRune(r):
		l.backup()
		return lexWord
	default:
		return l.errorf("unhandled char: %#U", r)
	}
}

func lexWord(l *lexer) stateFn {
	for {
		r := l.next()
		if r == '/' && strings.HasPrefix(l.input[l.pos:], "/") {
			l.backup()
			break
		}
		if !isWordRune(r) || isPunct(r) || r == '"' {
			if r != eof {
				l.backup()
			}
			break
		}
	}
	l.emit(itemWord)
	return lexAction
}

func lexQuote(l *lexer) stateFn {
Loop:
	for {
		switch l.next() {
		case '"':
			break Loop
		case eof, '\n', '\r':
			return l.errorf("unterminated string")
		}
	}
	l.emit(itemString)
	return lexAction
}

func isPunct(r rune) bool {
	return r == '(' || r == ')' || r == '{' || r == '}'
}

func isWordRune(r rune) bool {
	return r > ' '
}

func isEndOfLine(r rune) bool {
	return r == '\r' || r == '\n'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\v' || r == '\f'
}
