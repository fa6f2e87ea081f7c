package analyze

import (
	"fmt"
	"strings"

	"github.com/15yangyyyyy/mybpftrace/compiler/action"
	"github.com/15yangyyyyy/mybpftrace/compiler/config"
	"github.com/15yangyyyyy/mybpftrace/compiler/probe"
	"github.com/15yangyyyyy/mybpftrace/compiler/tp"
)

type (
	// Analyzer types builtins and calls of the probe body language.
	Analyzer struct {
		MaxStrlen int
	}

	UnknownBuiltinError struct{ Name string }

	UnsupportedProbeError struct {
		Name  string
		Probe probe.Type
	}
)

const (
	commLen = 16
	usymLen = 16
)

var scalars = map[string]bool{
	"pid":     true,
	"tid":     true,
	"uid":     true,
	"gid":     true,
	"nsecs":   true,
	"elapsed": true,
	"cpu":     true,
	"curtask": true,
	"rand":    true,
	"cgroup":  true,
}

var aggregates = map[string]tp.Type{
	"count": tp.Count,
	"sum":   tp.Sum,
	"min":   tp.Min,
	"max":   tp.Max,
	"avg":   tp.Avg,
	"stats": tp.Stats,
	"hist":  tp.Hist,
	"lhist": tp.Lhist,
}

var actions = map[string]action.Action{
	"printf":   action.Printf,
	"system":   action.Syscall,
	"cat":      action.Cat,
	"exit":     action.Exit,
	"print":    action.Print,
	"clear":    action.Clear,
	"zero":     action.Zero,
	"time":     action.Time,
	"join":     action.Join,
	"strftime": action.Strftime,
}

func New(cfg config.Config) *Analyzer {
	return &Analyzer{
		MaxStrlen: cfg.MaxStrlen,
	}
}

// Builtin returns the type of a builtin variable inside a probe of type pt.
func (a *Analyzer) Builtin(name string, pt probe.Type) (tp.SizedType, error) {
	switch {
	case scalars[name]:
		return tp.MakeInteger(8), nil
	case isArg(name):
		if pt != probe.Kprobe && !pt.User() || pt.Return() {
			return tp.SizedType{}, UnsupportedProbeError{Name: name, Probe: pt}
		}

		return tp.MakeInteger(8), nil
	}

	switch name {
	case "retval":
		if !pt.Return() {
			return tp.SizedType{}, UnsupportedProbeError{Name: name, Probe: pt}
		}

		return tp.MakeInteger(8), nil
	case "comm":
		return tp.MakeString(commLen), nil
	case "stack", "kstack":
		return tp.Make(tp.Stack, 8), nil
	case "ustack":
		return tp.Make(tp.Ustack, 8), nil
	case "func":
		switch {
		case pt.Kernel():
			return tp.Make(tp.Sym, 8), nil
		case pt.User():
			return tp.Make(tp.Usym, usymLen), nil
		}

		return tp.SizedType{}, UnsupportedProbeError{Name: name, Probe: pt}
	case "probe":
		return tp.Make(tp.Name, 8), nil
	}

	return tp.SizedType{}, UnknownBuiltinError{Name: name}
}

// Call returns the type of the value produced by calling fn.
func (a *Analyzer) Call(fn string) (tp.SizedType, error) {
	if t, ok := aggregates[fn]; ok {
		return tp.Make(t, 8), nil
	}

	if _, ok := actions[fn]; ok {
		return tp.Make(tp.None, 0), nil
	}

	switch fn {
	case "str":
		return tp.MakeString(a.MaxStrlen), nil
	case "ksym":
		return tp.Make(tp.Sym, 8), nil
	case "usym":
		return tp.Make(tp.Usym, usymLen), nil
	case "reg":
		return tp.MakeInteger(8), nil
	}

	return tp.SizedType{}, UnknownBuiltinError{Name: fn}
}

// Action returns the async action a call to fn is lowered to.
func (a *Analyzer) Action(fn string) (action.Action, bool) {
	act, ok := actions[fn]
	return act, ok
}

func isArg(name string) bool {
	return len(name) == 4 && strings.HasPrefix(name, "arg") && name[3] >= '0' && name[3] <= '9'
}

func (e UnknownBuiltinError) Error() string {
	return fmt.Sprintf("unknown builtin: %v", e.Name)
}

func (e UnsupportedProbeError) Error() string {
	return fmt.Sprintf("%v can not be used with %v probes", e.Name, e.Probe)
}
