package action

import (
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"
)

// Action identifies work the tracer hands over to user space.
type Action int

// Printf, Syscall and Cat each own a block of ids, one per call site.
const (
	Printf  Action = 0
	Syscall Action = 10000
	Cat     Action = 20000

	blockSize = 10000
)

const (
	Exit Action = iota + 30000
	Print
	Clear
	Zero
	Time
	Join
	HelperError
	PrintNonMap
	Strftime
	WatchpointAttach
	WatchpointDetach
	Skboutput

	maxAction
)

var names = map[Action]string{
	Printf:           "printf",
	Syscall:          "syscall",
	Cat:              "cat",
	Exit:             "exit",
	Print:            "print",
	Clear:            "clear",
	Zero:             "zero",
	Time:             "time",
	Join:             "join",
	HelperError:      "helper_error",
	PrintNonMap:      "print_non_map",
	Strftime:         "strftime",
	WatchpointAttach: "watchpoint_attach",
	WatchpointDetach: "watchpoint_detach",
	Skboutput:        "skboutput",
}

func Actions() []Action {
	r := []Action{Printf, Syscall, Cat}

	for a := Exit; a < maxAction; a++ {
		r = append(r, a)
	}

	return r
}

// Int is the numeric value of a.
func (a Action) Int() uint64 {
	return uint64(a)
}

func (a Action) String() string {
	if n, ok := names[a]; ok {
		return n
	}

	return "action(" + strconv.Itoa(int(a)) + ")"
}

func (a Action) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, a.String())
}

// ID returns the runtime id of the n-th call site of base.
func ID(base Action, n int) (uint64, error) {
	switch base {
	case Printf, Syscall, Cat:
	default:
		return 0, errors.New("%v has no id block", base)
	}

	if n < 0 || n >= blockSize {
		return 0, errors.New("%v: call site %d out of range", base, n)
	}

	return base.Int() + uint64(n), nil
}

// Split maps a runtime id back to its action and call site index.
func Split(id uint64) (Action, int, error) {
	switch {
	case id < uint64(Syscall):
		return Printf, int(id), nil
	case id < uint64(Cat):
		return Syscall, int(id - Syscall.Int()), nil
	case id < uint64(Exit):
		return Cat, int(id - Cat.Int()), nil
	case id < uint64(maxAction):
		return Action(id), 0, nil
	}

	return 0, 0, errors.New("unknown action id: %d", id)
}
