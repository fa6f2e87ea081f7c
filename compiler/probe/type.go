package probe

import (
	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"
)

// Type is the category of instrumentation point a probe attaches to.
type Type int

const (
	Invalid Type = iota
	Kprobe
	Kretprobe
	Uprobe
	Uretprobe
	Usdt
	Begin
	End
	Tracepoint
	Profile
	Interval
	Software
	Hardware
	Watchpoint
	Asyncwatchpoint
	Kfunc
	Kretfunc
	Iter
	Rawtracepoint

	numTypes
)

var typeNames = [...]string{
	Invalid:         "invalid",
	Kprobe:          "kprobe",
	Kretprobe:       "kretprobe",
	Uprobe:          "uprobe",
	Uretprobe:       "uretprobe",
	Usdt:            "usdt",
	Begin:           "begin",
	End:             "end",
	Tracepoint:      "tracepoint",
	Profile:         "profile",
	Interval:        "interval",
	Software:        "software",
	Hardware:        "hardware",
	Watchpoint:      "watchpoint",
	Asyncwatchpoint: "asyncwatchpoint",
	Kfunc:           "kfunc",
	Kretfunc:        "kretfunc",
	Iter:            "iter",
	Rawtracepoint:   "rawtracepoint",
}

var _ = [1]struct{}{}[len(typeNames)-int(numTypes)]

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		panic(errors.New("unknown probe type: %d", int(t)))
	}

	return typeNames[t]
}

func (t Type) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, t.String())
}

// Kernel reports whether t instruments kernel functions.
func (t Type) Kernel() bool {
	switch t {
	case Kprobe, Kretprobe, Kfunc, Kretfunc:
		return true
	}

	return false
}

// User reports whether t instruments user space code.
func (t Type) User() bool {
	switch t {
	case Uprobe, Uretprobe, Usdt:
		return true
	}

	return false
}

// Return reports whether t fires on function return.
func (t Type) Return() bool {
	switch t {
	case Kretprobe, Uretprobe, Kretfunc:
		return true
	}

	return false
}
