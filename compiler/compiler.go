package compiler

import (
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/15yangyyyyy/mybpftrace/compiler/config"
	"github.com/15yangyyyyy/mybpftrace/compiler/parse"
	"github.com/15yangyyyyy/mybpftrace/compiler/probe"
	"github.com/15yangyyyyy/mybpftrace/compiler/set"
)

type (
	Result struct {
		License string

		Points []Point
		Types  set.Bits[probe.Type]

		// Modules whose BTF is needed to compile the program.
		Modules []string
	}

	TooManyProbesError struct {
		N   int
		Max int
	}
)

func CheckFile(ctx context.Context, cfg config.Config, name string, m Matcher) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Check(ctx, cfg, name, text, m)
}

// Check parses probe headers of text and classifies every attach point.
// m may be nil, then wildcard attach points contribute no modules.
func Check(ctx context.Context, cfg config.Config, name string, text []byte, m Matcher) (res *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "check", "name", name)
	defer tr.Finish("err", &err)

	res = &Result{
		License: License(text),
	}

	if res.License == "" {
		res.License = cfg.License
	} else {
		tr.V("license").Printw("found license from SPDX ID", "license", res.License)
	}

	st := parse.New()
	st.AddFile(name, text)

	prog, err := st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	cat := probe.Default()

	for _, pr := range prog.Probes {
		for _, ap := range pr.AttachPoints {
			p, err := Classify(cat, ap)
			if err != nil {
				return nil, errors.Wrap(err, "%v", st.Position(ap.Pos))
			}

			res.Points = append(res.Points, p)
			res.Types.Set(p.Type)
		}
	}

	if n := len(res.Points); n > cfg.MaxProbes {
		return nil, TooManyProbesError{N: n, Max: cfg.MaxProbes}
	}

	res.Modules = Modules(res.Points, m)

	if tr.If("dump_probes") {
		for _, p := range res.Points {
			tr.Printw("attach point", "provider", p.Provider, "type", p.Type, "target", p.Target, "func", p.Func, "expand", p.NeedExpansion)
		}
	}

	tr.Printw("checked", "probes", len(prog.Probes), "attach_points", len(res.Points), "types", res.Types, "modules", res.Modules)

	return res, nil
}

func (e TooManyProbesError) Error() string {
	return fmt.Sprintf("%d attach points exceed the limit of %d", e.N, e.Max)
}
