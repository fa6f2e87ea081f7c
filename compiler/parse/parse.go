package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"reflect"

	"tlog.app/go/errors"

	"github.com/15yangyyyyy/mybpftrace/compiler/ast"
)

type (
	State struct {
		b []byte // all files concatenated

		Grammar Parser

		files []file
	}

	file struct {
		base int
		size int
		name string
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	// Position is a human readable source location.
	Position struct {
		File string
		Line int
		Col  int
	}

	TypeExpectedError struct {
		T interface{}
	}

	PartialReadError struct {
		End int
	}

	stateCtxKey struct{}
)

// ParseFile also returns the State to resolve positions and spans against.
func ParseFile(ctx context.Context, name string) (*ast.Program, *State, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read file")
	}

	s := New()

	s.AddFile(name, data)

	p, err := s.Parse(ctx)
	if err != nil {
		return nil, nil, err
	}

	return p, s, nil
}

func Parse(ctx context.Context, text []byte) (*ast.Program, error) {
	s := New()

	s.AddFile("", text)

	return s.Parse(ctx)
}

func New() *State {
	return &State{
		Grammar: Program{},
	}
}

func (s *State) Parse(ctx context.Context) (p *ast.Program, err error) {
	ctx = ContextWithState(ctx, s)

	x, i, err := s.Grammar.Parse(ctx, s.b, 0)
	if err != nil {
		return nil, errors.Wrap(err, "parse as grammar")
	}

	i = skipTrivia(s.b, i)

	if i != len(s.b) {
		return nil, PartialReadError{End: i}
	}

	p, ok := x.(*ast.Program)
	if !ok {
		return nil, NewTypeExpectedError(p)
	}

	return p, nil
}

func (s *State) AddFile(name string, text []byte) {
	f := file{
		name: name,
		base: len(s.b),
		size: len(text),
	}

	s.b = append(s.b, text...)

	s.files = append(s.files, f)
}

func (s *State) Text(pos, end int) []byte {
	return s.b[pos:end]
}

// Position converts an offset in the concatenated text to file:line:col.
func (s *State) Position(pos int) Position {
	for _, f := range s.files {
		if pos < f.base || pos > f.base+f.size {
			continue
		}

		text := s.b[f.base:pos]
		line := bytes.Count(text, []byte{'\n'}) + 1
		col := pos - f.base - bytes.LastIndexByte(text, '\n')

		return Position{
			File: f.name,
			Line: line,
			Col:  col,
		}
	}

	return Position{}
}

func (p Position) String() string {
	name := p.File
	if name == "" {
		name = "stdin"
	}

	return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Col)
}

func NewTypeExpectedError(t interface{}) TypeExpectedError {
	return TypeExpectedError{
		T: t,
	}
}

func ContextWithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateCtxKey{}, s)
}

func StateFromContext(ctx context.Context) *State {
	s, _ := ctx.Value(stateCtxKey{}).(*State)
	return s
}

func (e TypeExpectedError) Error() string {
	return fmt.Sprintf("%v expected", reflect.TypeOf(e.T))
}

func (e PartialReadError) Error() string {
	return fmt.Sprintf("partial read: stopped at %d", e.End)
}
