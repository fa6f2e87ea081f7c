package format

import (
	"context"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/15yangyyyyy/mybpftrace/compiler/ast"
	"github.com/15yangyyyyy/mybpftrace/compiler/parse"
	"github.com/15yangyyyyy/mybpftrace/compiler/probe"
)

// Format appends canonical text of x to b.
// Predicate and body text is taken from the parse.State in ctx if any.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x any, d int) ([]byte, error) {
	switch x := x.(type) {
	case *ast.Program:
		return formatProgram(ctx, b, x, d)
	case *ast.Probe:
		return formatProbe(ctx, b, x, d)
	case *ast.AttachPoint:
		return formatAttachPoint(ctx, b, x, d)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatProgram(ctx context.Context, b []byte, x *ast.Program, d int) (_ []byte, err error) {
	for i, p := range x.Probes {
		if i != 0 {
			b = append(b, '\n')
		}

		b, err = formatProbe(ctx, b, p, d)
		if err != nil {
			return nil, errors.Wrap(err, "probe %d", i)
		}
	}

	return b, nil
}

func formatProbe(ctx context.Context, b []byte, x *ast.Probe, d int) (_ []byte, err error) {
	st := parse.StateFromContext(ctx)

	for i, ap := range x.AttachPoints {
		if i != 0 {
			b = append(b, ",\n"...)
		}

		b, err = formatAttachPoint(ctx, b, ap, d)
		if err != nil {
			return nil, errors.Wrap(err, "attach point %d", i)
		}
	}

	if st == nil {
		return app(b, 0, " {}\n"), nil
	}

	if x.Pred != (ast.Base{}) {
		b = app(b, 0, "\n%s/%s/", tabs[:d], st.Text(x.Pred.Pos, x.Pred.End))
	}

	b = app(b, 0, "\n%s%s\n", tabs[:d], st.Text(x.Body.Pos, x.Body.End))

	return b, nil
}

func formatAttachPoint(ctx context.Context, b []byte, x *ast.AttachPoint, d int) ([]byte, error) {
	if x.Provider == "" {
		return nil, errors.New("empty provider")
	}

	name, ok := probe.Name(x.Provider)
	if !ok {
		name = x.Provider
	}

	b = app(b, d, "%s", name)

	for _, p := range x.Parts {
		b = append(b, ':')

		switch {
		case parse.IsWord(p):
			b = append(b, p...)
		case strings.Contains(p, `"`):
			return nil, errors.New("part can not be quoted: %q", p)
		default:
			b = append(b, '"')
			b = append(b, p...)
			b = append(b, '"')
		}
	}

	return b, nil
}

const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

func app(b []byte, d int, f string, args ...any) []byte {
	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
