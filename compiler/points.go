package compiler

import (
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/15yangyyyyy/mybpftrace/compiler/ast"
	"github.com/15yangyyyyy/mybpftrace/compiler/probe"
)

type (
	// Point is a classified attach point.
	Point struct {
		AP *ast.AttachPoint

		Type     probe.Type
		Provider string // canonical provider name

		Target string
		Ns     string
		Func   string
		Freq   int
		Len    int
		Mode   string

		NeedExpansion bool
	}
)

// Classify resolves the provider of ap and splits its parts by probe type.
func Classify(cat probe.Catalog, ap *ast.AttachPoint) (p Point, err error) {
	p.AP = ap

	p.Type, err = cat.Resolve(ap.Provider)
	if err != nil {
		return p, err
	}

	p.Provider = cat.LegacyName(ap.Provider)

	parts := ap.Parts
	n := len(parts)

	arity := func(ok bool, want string) error {
		if ok {
			return nil
		}

		return errors.New("%v: expected %v, got %d", p.Provider, want, n)
	}

	switch p.Type {
	case probe.Begin, probe.End:
		err = arity(n == 0, "no parts")
	case probe.Kprobe, probe.Kretprobe, probe.Kfunc, probe.Kretfunc:
		err = arity(n == 1 || n == 2, "[module:]function")
		if err != nil {
			break
		}

		if n == 2 {
			p.Target = parts[0]
		}

		p.Func = parts[n-1]
	case probe.Uprobe, probe.Uretprobe:
		err = arity(n == 2, "binary:function")
		if err != nil {
			break
		}

		p.Target, p.Func = parts[0], parts[1]
	case probe.Usdt:
		err = arity(n == 2 || n == 3, "binary:[namespace:]probe")
		if err != nil {
			break
		}

		p.Target = parts[0]
		p.Func = parts[n-1]

		if n == 3 {
			p.Ns = parts[1]
		}
	case probe.Tracepoint:
		err = arity(n == 2, "category:event")
		if err != nil {
			break
		}

		p.Target, p.Func = parts[0], parts[1]
	case probe.Rawtracepoint, probe.Iter:
		err = arity(n == 1, "name")
		if err != nil {
			break
		}

		p.Func = parts[0]
	case probe.Profile, probe.Interval:
		err = arity(n == 2, "unit:rate")
		if err != nil {
			break
		}

		p.Target = parts[0]
		p.Freq, err = positive(parts[1], "rate")
	case probe.Software, probe.Hardware:
		err = arity(n == 1 || n == 2, "event[:count]")
		if err != nil {
			break
		}

		p.Target = parts[0]

		if n == 2 {
			p.Freq, err = positive(parts[1], "count")
		}
	case probe.Watchpoint, probe.Asyncwatchpoint:
		err = arity(n == 3, "address:length:mode")
		if err != nil {
			break
		}

		p.Target = parts[0]
		p.Mode = parts[2]

		p.Len, err = positive(parts[1], "length")
	default:
		err = errors.New("%v: unsupported probe type", p.Type)
	}

	if err != nil {
		return p, err
	}

	p.NeedExpansion = HasWildcard(p.Target) || HasWildcard(p.Func)

	return p, nil
}

// HasWildcard reports whether s is a pattern rather than a plain name.
func HasWildcard(s string) bool {
	if strings.Contains(s, "*") {
		return true
	}

	return strings.Contains(s, "[") && strings.Contains(s, "]")
}

func positive(s, what string) (int, error) {
	x, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(err, "parse %v", what)
	}

	if x <= 0 {
		return 0, errors.New("%v must be positive: %d", what, x)
	}

	return x, nil
}
