package tp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeNames(t *testing.T) {
	exp := []string{
		"none", "integer", "hist", "lhist", "count", "sum", "min", "max", "avg",
		"stats", "stack", "ustack", "string", "sym", "usym", "cast", "name",
	}

	types := Types()
	require.Len(t, types, len(exp))

	seen := map[string]Type{}

	for i, x := range types {
		s := x.String()

		require.Equal(t, exp[i], s)
		require.Equal(t, strings.ToLower(s), s)
		require.NotContains(t, seen, s, "%v renders like %v", x, seen[s])

		seen[s] = x
	}
}

func TestTypeStringPanics(t *testing.T) {
	require.Panics(t, func() { _ = numTypes.String() })
	require.Panics(t, func() { _ = Type(-1).String() })
	require.Panics(t, func() { _ = Type(100).String() })
}

func TestParseType(t *testing.T) {
	for _, x := range Types() {
		p, err := ParseType(x.String())
		require.NoError(t, err)
		require.Equal(t, x, p)
	}

	_, err := ParseType("int")
	require.EqualError(t, err, `unknown type: "int"`)

	var uerr UnknownTypeError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, "int", uerr.Name)
}

func TestTypeTlogAppend(t *testing.T) {
	require.NotEmpty(t, Usym.TlogAppend(nil))
	require.NotEmpty(t, MakeCast(16, true).TlogAppend(nil))
}
