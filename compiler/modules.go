package compiler

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"tlog.app/go/tlog"

	"github.com/15yangyyyyy/mybpftrace/compiler/probe"
)

type (
	// Matcher expands wildcard attach points against the running system.
	Matcher interface {
		// Matches returns "module:function" entries matching p.
		Matches(p Point) []string

		// FuncModules returns the modules defining fn.
		FuncModules(fn string) []string
	}
)

// Modules lists kernel modules whose BTF describes the functions
// and tracepoints the points attach to.
func Modules(points []Point, m Matcher) []string {
	var mods []string

	for _, p := range points {
		switch {
		case p.Type == probe.Kfunc || p.Type == probe.Kretfunc:
		case (p.Type == probe.Kprobe || p.Type == probe.Kretprobe) && p.Target != "":
		case p.Type == probe.Tracepoint:
			// Only one category is supported: tracepoint BTF comes from C definitions.
			mods = append(mods, p.Target)
			continue
		default:
			continue
		}

		if !p.NeedExpansion {
			if p.Target != "" {
				mods = append(mods, p.Target)
			}

			continue
		}

		if m == nil {
			tlog.V("modules").Printw("no matcher for wildcard", "provider", p.Provider, "target", p.Target, "func", p.Func)
			continue
		}

		for _, match := range m.Matches(p) {
			mods = append(mods, m.FuncModules(erasePrefix(match))...)
		}
	}

	mods = lo.Uniq(mods)
	slices.Sort(mods)

	return mods
}

func erasePrefix(s string) string {
	_, fn, ok := strings.Cut(s, ":")
	if !ok {
		return s
	}

	return fn
}
