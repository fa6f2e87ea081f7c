package ast

type (
	Node interface {
	}

	Base struct {
		Pos int
		End int
	}

	// AttachPoint is provider:part:part... as written in the source.
	AttachPoint struct {
		Base `tlog:",embed"`

		Provider string
		Parts    []string
	}

	Probe struct {
		Base `tlog:",embed"`

		AttachPoints []*AttachPoint

		Pred Base `tlog:",omitempty"`
		Body Base
	}

	Program struct {
		Probes []*Probe
	}
)
