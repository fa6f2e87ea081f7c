package parse

import (
	"bytes"
	"context"
	"unicode/utf8"

	"tlog.app/go/errors"

	"github.com/15yangyyyyy/mybpftrace/compiler/ast"
)

type (
	Const []byte

	Ident []byte

	// Word is a run of bytes allowed in an unquoted attach point part.
	Word []byte

	// Quoted is a "..." string without escapes. It yields the contents.
	Quoted string
)

func (p Const) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return Const(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, errors.New("%q expected", []byte(p))
}

func (p Const) String() string { return "'" + string(p) + "'" }

func (p Ident) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) {
		return nil, st, errors.New("ident expected")
	}

	i = st

	c := b[i]

	switch {
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		i++
	default:
		return nil, st, errors.New("ident expected")
	}

loop:
	for i < len(b) {
		c := b[i]

		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_':
			i++
		case c >= utf8.RuneSelf:
			if r, w := utf8.DecodeRune(b[i:]); r == utf8.RuneError {
				return nil, i, errors.New("bad rune")
			} else {
				i += w
			}
		default:
			break loop
		}
	}

	return Ident(b[st:i]), i, nil
}

func (p Ident) String() string { return "ident" }

func (p Word) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	for i < len(b) && isWordChar(b[i]) {
		i++
	}

	if i == st {
		return nil, st, errors.New("word expected")
	}

	return Word(b[st:i]), i, nil
}

func (p Word) String() string { return "word" }

// IsWord reports whether s can be written as an unquoted attach point part.
func IsWord(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isWordChar(s[i]) {
			return false
		}
	}

	return true
}

func isWordChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}

	switch c {
	case '_', '/', '*', '.', '$', '-', '[', ']', '+', '@', '?':
		return true
	}

	return false
}

func (p Quoted) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '"' {
		return nil, st, errors.New("quote expected")
	}

	e := bytes.IndexByte(b[st+1:], '"')
	if e < 0 {
		return nil, len(b), errors.New("unterminated string")
	}

	i = st + 1 + e + 1

	return Quoted(b[st+1 : i-1]), i, nil
}

func (p Quoted) String() string { return "quoted string" }
