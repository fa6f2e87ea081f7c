package probe

import (
	"fmt"
	"slices"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"
)

type (
	// Item is one catalog entry. Both Name and Abbr resolve to Type.
	Item struct {
		Name string
		Abbr string
		Type Type
	}

	// Catalog is scanned in order and the first match wins.
	Catalog []Item

	UnknownTypeError struct {
		Token string
	}
)

var catalog = Catalog{
	{Name: "kprobe", Abbr: "k", Type: Kprobe},
	{Name: "kretprobe", Abbr: "kr", Type: Kretprobe},
	{Name: "uprobe", Abbr: "u", Type: Uprobe},
	{Name: "uretprobe", Abbr: "ur", Type: Uretprobe},
	{Name: "usdt", Abbr: "U", Type: Usdt},
	{Name: "BEGIN", Abbr: "BEGIN", Type: Begin},
	{Name: "END", Abbr: "END", Type: End},
	{Name: "tracepoint", Abbr: "t", Type: Tracepoint},
	{Name: "profile", Abbr: "p", Type: Profile},
	{Name: "interval", Abbr: "i", Type: Interval},
	{Name: "software", Abbr: "s", Type: Software},
	{Name: "hardware", Abbr: "h", Type: Hardware},
	{Name: "watchpoint", Abbr: "w", Type: Watchpoint},
	{Name: "asyncwatchpoint", Abbr: "aw", Type: Asyncwatchpoint},
	{Name: "kfunc", Abbr: "f", Type: Kfunc},
	{Name: "kretfunc", Abbr: "fr", Type: Kretfunc},
	{Name: "iter", Abbr: "it", Type: Iter},
	{Name: "rawtracepoint", Abbr: "rt", Type: Rawtracepoint},
}

// Default returns a copy of the builtin catalog.
func Default() Catalog {
	return slices.Clone(catalog)
}

func Lookup(tok string) (Item, bool) { return catalog.Lookup(tok) }
func Resolve(tok string) (Type, error) { return catalog.Resolve(tok) }
func MustResolve(tok string) Type { return catalog.MustResolve(tok) }
func Name(tok string) (string, bool) { return catalog.Name(tok) }
func LegacyName(tok string) string { return catalog.LegacyName(tok) }

func (c Catalog) Lookup(tok string) (Item, bool) {
	for _, it := range c {
		if tok == it.Name || tok == it.Abbr {
			if l := tlog.V("probe_lookup"); l != nil {
				l.Printw("probe type", "token", tok, "name", it.Name, "type", it.Type, "from", loc.Callers(1, 3))
			}

			return it, true
		}
	}

	return Item{}, false
}

// Resolve returns UnknownTypeError if tok names no catalog entry.
func (c Catalog) Resolve(tok string) (Type, error) {
	it, ok := c.Lookup(tok)
	if !ok {
		return Invalid, UnknownTypeError{Token: tok}
	}

	return it.Type, nil
}

// MustResolve is Resolve for tokens that were validated already.
// It panics on an unknown token.
func (c Catalog) MustResolve(tok string) Type {
	t, err := c.Resolve(tok)
	if err != nil {
		panic(err)
	}

	return t
}

func (c Catalog) Name(tok string) (string, bool) {
	it, ok := c.Lookup(tok)

	return it.Name, ok
}

// LegacyName returns the canonical name of tok or "" if it is unknown.
func (c Catalog) LegacyName(tok string) string {
	name, _ := c.Name(tok)

	return name
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown probe type: %q", e.Token)
}
