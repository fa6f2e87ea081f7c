package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/15yangyyyyy/mybpftrace/compiler"
	"github.com/15yangyyyyy/mybpftrace/compiler/action"
	"github.com/15yangyyyyy/mybpftrace/compiler/analyze"
	"github.com/15yangyyyyy/mybpftrace/compiler/config"
	"github.com/15yangyyyyy/mybpftrace/compiler/format"
	"github.com/15yangyyyyy/mybpftrace/compiler/parse"
	"github.com/15yangyyyyy/mybpftrace/compiler/probe"
	"github.com/15yangyyyyy/mybpftrace/compiler/tp"
)

func main() {
	typesCmd := &cli.Command{
		Name:        "types",
		Description: "list value kinds, all or the named ones",
		Action:      typesAct,
		Args:        cli.Args{},
	}

	probesCmd := &cli.Command{
		Name:        "probes",
		Description: "list probe types with their abbreviations",
		Action:      probesAct,
	}

	actionsCmd := &cli.Command{
		Name:        "actions",
		Description: "list async actions, or decode the given runtime ids",
		Action:      actionsAct,
		Args:        cli.Args{},
	}

	resolveCmd := &cli.Command{
		Name:        "resolve",
		Description: "resolve probe type names and abbreviations",
		Action:      resolveAct,
		Args:        cli.Args{},
	}

	builtinCmd := &cli.Command{
		Name:        "builtin",
		Description: "type builtins and calls under a probe type: builtin PROBE NAME...",
		Action:      builtinAct,
		Args:        cli.Args{},
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "check attach points of scripts",
		Action:      checkAct,
		Args:        cli.Args{},
	}

	formatCmd := &cli.Command{
		Name:        "format",
		Description: "print scripts with canonical probe names",
		Action:      formatAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "mybpftrace",
		Description: "mybpftrace inspects bpftrace scripts and the type model behind them",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
		},
		Commands: []*cli.Command{
			typesCmd,
			probesCmd,
			actionsCmd,
			resolveCmd,
			builtinCmd,
			checkCmd,
			formatCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	if v := c.String("verbosity"); v != "" {
		tlog.SetVerbosity(v)
	}

	return nil
}

func typesAct(c *cli.Command) error {
	kinds := tp.Types()

	if len(c.Args) != 0 {
		kinds = kinds[:0]

		for _, a := range c.Args {
			k, err := tp.ParseType(a)
			if err != nil {
				return err
			}

			kinds = append(kinds, k)
		}
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Kind", "Sized", "Pointer", "Array"})
	t.SetStyle(table.StyleLight)

	for _, k := range kinds {
		st := tp.Make(k, 8)

		t.AppendRow(table.Row{k, st, st.Pointer(), st.IsArray()})
	}

	fmt.Println(t.Render())

	return nil
}

func probesAct(c *cli.Command) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Abbr", "Type", "Kernel", "User", "Return"})
	t.SetStyle(table.StyleLight)

	for _, it := range probe.Default() {
		t.AppendRow(table.Row{it.Name, it.Abbr, it.Type, it.Type.Kernel(), it.Type.User(), it.Type.Return()})
	}

	fmt.Println(t.Render())

	return nil
}

func actionsAct(c *cli.Command) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	if len(c.Args) == 0 {
		t.AppendHeader(table.Row{"Action", "ID"})

		for _, a := range action.Actions() {
			t.AppendRow(table.Row{a, a.Int()})
		}

		fmt.Println(t.Render())

		return nil
	}

	t.AppendHeader(table.Row{"ID", "Action", "Call Site"})

	for _, a := range c.Args {
		id, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse id")
		}

		act, n, err := action.Split(id)
		if err != nil {
			return err
		}

		t.AppendRow(table.Row{id, act, n})
	}

	fmt.Println(t.Render())

	return nil
}

func resolveAct(c *cli.Command) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Token", "Name", "Type"})
	t.SetStyle(table.StyleLight)

	for _, a := range c.Args {
		it, ok := probe.Lookup(a)
		if !ok {
			return probe.UnknownTypeError{Token: a}
		}

		t.AppendRow(table.Row{a, it.Name, it.Type})
	}

	fmt.Println(t.Render())

	return nil
}

func builtinAct(c *cli.Command) error {
	if len(c.Args) < 2 {
		return errors.New("usage: builtin PROBE NAME...")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return errors.Wrap(err, "config")
	}

	pt, err := probe.Resolve(c.Args[0])
	if err != nil {
		return err
	}

	a := analyze.New(cfg)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Type", "Action"})
	t.SetStyle(table.StyleLight)

	for _, name := range c.Args[1:] {
		var st tp.SizedType

		fn, isCall := strings.CutSuffix(name, "()")
		if isCall {
			st, err = a.Call(fn)
		} else {
			st, err = a.Builtin(name, pt)
		}
		if err != nil {
			return errors.Wrap(err, "%v", name)
		}

		var act any = ""
		if x, ok := a.Action(fn); isCall && ok {
			act = x
		}

		t.AppendRow(table.Row{name, st, act})
	}

	fmt.Println(t.Render())

	return nil
}

func checkAct(c *cli.Command) error {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	cfg, err := config.FromEnv()
	if err != nil {
		return errors.Wrap(err, "config")
	}

	for _, a := range c.Args {
		res, err := compiler.CheckFile(ctx, cfg, a, nil)
		if err != nil {
			return errors.Wrap(err, "check %v", a)
		}

		t := table.NewWriter()
		t.SetTitle(a)
		t.AppendHeader(table.Row{"Provider", "Type", "Target", "Ns", "Func", "Freq", "Expand"})
		t.SetStyle(table.StyleLight)

		for _, p := range res.Points {
			t.AppendRow(table.Row{p.Provider, p.Type, p.Target, p.Ns, p.Func, p.Freq, p.NeedExpansion})
		}

		fmt.Println(t.Render())
		fmt.Printf("license: %v\nprobe types: %v\nmodules: %v\n", res.License, res.Types.Slice(), strings.Join(res.Modules, " "))
	}

	return nil
}

func formatAct(c *cli.Command) error {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		prog, st, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(parse.ContextWithState(ctx, st), nil, prog)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}
