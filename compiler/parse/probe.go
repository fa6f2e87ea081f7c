package parse

import (
	"bytes"
	"context"

	"tlog.app/go/errors"

	"github.com/15yangyyyyy/mybpftrace/compiler/ast"
)

type (
	// AttachPoint parses provider[:part]...
	AttachPoint struct{}

	// AttachList parses comma separated attach points.
	AttachList struct{}

	// Pred parses /.../ and yields its span.
	Pred struct{}

	// Body skips a balanced {...} block and yields its span.
	Body struct{}

	Probe struct{}

	// Directive skips a preprocessor line.
	Directive struct{}

	// CDecl skips a top level struct, union, enum or typedef.
	CDecl struct{}

	Program struct{}

	predText struct{}
)

var part = AnyOf{Quoted(""), Word(nil)}

func (AttachPoint) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = Ident{}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "provider")
	}

	ap := &ast.AttachPoint{
		Provider: string(x.(Ident)),
	}

	for i < len(b) && b[i] == ':' {
		x, i, err = part.Parse(ctx, b, i+1)
		if err != nil {
			return nil, i, errors.Wrap(err, "part %d", len(ap.Parts)+1)
		}

		switch x := x.(type) {
		case Quoted:
			ap.Parts = append(ap.Parts, string(x))
		case Word:
			ap.Parts = append(ap.Parts, string(x))
		}
	}

	ap.Base = ast.Base{Pos: st, End: i}

	return ap, i, nil
}

func (AttachPoint) String() string { return "attach point" }

func (AttachList) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	var l []*ast.AttachPoint

	sep := Padded(Const(","))
	next := Padded(AttachPoint{})

	x, i, err = AttachPoint{}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	l = append(l, x.(*ast.AttachPoint))

	for {
		_, j, err := sep.Parse(ctx, b, i)
		if err != nil {
			break
		}

		x, i, err = next.Parse(ctx, b, j)
		if err != nil {
			return nil, i, errors.Wrap(err, "after comma")
		}

		l = append(l, x.(*ast.AttachPoint))
	}

	return l, i, nil
}

func (AttachList) String() string { return "attach point list" }

func (Pred) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return Context{
		Pre:  Const("/"),
		Of:   predText{},
		Post: Const("/"),
	}.Parse(ctx, b, st)
}

func (Pred) String() string { return "predicate" }

// predText ends at the '/' followed by the body, strings are skipped.
func (predText) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	for i = st; i < len(b); {
		switch b[i] {
		case '"', '\'':
			e := skipString(b, i)
			if e < 0 {
				return nil, len(b), errors.New("unterminated string at %d", i)
			}

			i = e

			continue
		case '/':
			if j := SpaceAll.Trivia(b, i+1); j < len(b) && b[j] == '{' {
				return ast.Base{Pos: st, End: i}, i, nil
			}
		}

		i++
	}

	return nil, st, errors.New("unterminated predicate")
}

func (Body) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	_, i, err = Const("{").Parse(ctx, b, st)
	if err != nil {
		return nil, st, err
	}

	depth := 1

	for i < len(b) {
		j := SpaceAll.Trivia(b, i)
		if j != i {
			i = j
			continue
		}

		switch b[i] {
		case '"', '\'':
			e := skipString(b, i)
			if e < 0 {
				return nil, len(b), errors.New("unterminated string at %d", i)
			}

			i = e

			continue
		case '{':
			depth++
		case '}':
			depth--
		}

		i++

		if depth == 0 {
			return ast.Base{Pos: st, End: i}, i, nil
		}
	}

	return nil, i, errors.New("unterminated block")
}

func (Body) String() string { return "block" }

// skipString returns the offset after the closing quote or -1.
func skipString(b []byte, st int) int {
	q := b[st]

	for i := st + 1; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case q:
			return i + 1
		}
	}

	return -1
}

func (Probe) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = AllOf{
		AttachList{},
		Optional{Padded(Pred{})},
		Padded(Body{}),
	}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	xs := x.([]ast.Node)

	p := &ast.Probe{
		Base:         ast.Base{Pos: st, End: i},
		AttachPoints: xs[0].([]*ast.AttachPoint),
		Body:         xs[2].(ast.Base),
	}

	if pred, ok := xs[1].(ast.Base); ok {
		p.Pred = pred
	}

	return p, i, nil
}

func (Probe) String() string { return "probe" }

func (Directive) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '#' {
		return nil, st, errors.New("directive expected")
	}

	e := bytes.IndexByte(b[st:], '\n')
	if e < 0 {
		return None{}, len(b), nil
	}

	return None{}, st + e + 1, nil
}

func (Directive) String() string { return "directive" }

func (CDecl) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = Ident{}.Parse(ctx, b, st)
	if err != nil {
		return nil, st, err
	}

	switch string(x.(Ident)) {
	case "struct", "union", "enum", "typedef":
	default:
		return nil, st, errors.New("declaration expected")
	}

	for i < len(b) {
		i = SpaceAll.Trivia(b, i)

		if i == len(b) {
			break
		}

		switch b[i] {
		case ';':
			return None{}, i + 1, nil
		case '{':
			_, i, err = Body{}.Parse(ctx, b, i)
			if err != nil {
				return nil, i, errors.Wrap(err, "declaration")
			}

			continue
		}

		i++
	}

	return nil, i, errors.New("unterminated declaration")
}

func (CDecl) String() string { return "declaration" }

func (Program) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	p := &ast.Program{}

	item := AnyOf{Directive{}, CDecl{}, Probe{}}

	i = skipTrivia(b, st)

	for i < len(b) {
		x, i, err = item.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "at pos %d", i)
		}

		if pr, ok := x.(*ast.Probe); ok {
			p.Probes = append(p.Probes, pr)
		}

		i = skipTrivia(b, i)
	}

	return p, i, nil
}
