package parse

import (
	"bytes"
	"context"

	"tlog.app/go/errors"

	"github.com/15yangyyyyy/mybpftrace/compiler/ast"
)

type (
	Spaces uint64

	// Spacer skips Spaces and comments before Of.
	Spacer struct {
		Spaces Spaces
		Of     Parser
	}
)

var SpaceAll = NewSpaces(' ', '\t', '\r', '\n')

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && b[i] < 64 && s&(1<<b[i]) != 0 {
		i++
	}

	return
}

// Trivia skips spaces and comments of both styles.
// An unterminated block comment runs to the end of b.
func (s Spaces) Trivia(b []byte, st int) (i int) {
	i = st

	for {
		i = s.Skip(b, i)

		switch {
		case bytes.HasPrefix(b[i:], []byte("//")):
			e := bytes.IndexByte(b[i:], '\n')
			if e < 0 {
				return len(b)
			}

			i += e + 1
		case bytes.HasPrefix(b[i:], []byte("/*")):
			e := bytes.Index(b[i+2:], []byte("*/"))
			if e < 0 {
				return len(b)
			}

			i += 2 + e + 2
		default:
			return i
		}
	}
}

func skipTrivia(b []byte, st int) int {
	return SpaceAll.Trivia(b, st)
}

// Padded skips any whitespace and comments before p.
func Padded(p Parser) Spacer {
	return Spacer{
		Spaces: SpaceAll,
		Of:     p,
	}
}

func (p Spacer) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	vst := p.Spaces.Trivia(b, st)

	x, i, err = p.Of.Parse(ctx, b, vst)
	if err != nil {
		if i == vst {
			i = st
		}

		err = errors.Wrap(err, "%s", name(p.Of))
	}

	return
}
