package probe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"tlog.app/go/tlog"
)

func TestCatalogNameAndAbbrAgree(t *testing.T) {
	for _, it := range Default() {
		t.Run(it.Name, func(t *testing.T) {
			byName, err := Resolve(it.Name)
			require.NoError(t, err)

			byAbbr, err := Resolve(it.Abbr)
			require.NoError(t, err)

			require.Equal(t, it.Type, byName)
			require.Equal(t, it.Type, byAbbr)

			name, ok := Name(it.Abbr)
			require.True(t, ok)
			require.Equal(t, it.Name, name)

			name, ok = Name(it.Name)
			require.True(t, ok)
			require.Equal(t, it.Name, name)
		})
	}
}

func TestKprobe(t *testing.T) {
	require.Equal(t, Kprobe, MustResolve("kprobe"))
	require.Equal(t, Kprobe, MustResolve("k"))
	require.Equal(t, "kprobe", LegacyName("k"))
}

func TestCaseSensitive(t *testing.T) {
	_, ok := Lookup("KPROBE")
	require.False(t, ok)

	require.Equal(t, Usdt, MustResolve("U"))
	require.Equal(t, Uprobe, MustResolve("u"))
	require.Equal(t, Begin, MustResolve("BEGIN"))

	_, err := Resolve("begin")
	require.Error(t, err)
}

func TestUnknownToken(t *testing.T) {
	const tok = "not-a-real-probe"

	require.Equal(t, "", LegacyName(tok))

	name, ok := Name(tok)
	require.False(t, ok)
	require.Equal(t, "", name)

	typ, err := Resolve(tok)
	require.Equal(t, Invalid, typ)
	require.EqualError(t, err, `unknown probe type: "not-a-real-probe"`)

	var uerr UnknownTypeError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, tok, uerr.Token)

	require.PanicsWithValue(t, UnknownTypeError{Token: tok}, func() { MustResolve(tok) })
}

func TestFirstMatchWins(t *testing.T) {
	c := Catalog{
		{Name: "kprobe", Abbr: "k", Type: Kprobe},
		{Name: "kfunc", Abbr: "k", Type: Kfunc},
		{Name: "k", Abbr: "kk", Type: Kretprobe},
	}

	typ, err := c.Resolve("k")
	require.NoError(t, err)
	require.Equal(t, Kprobe, typ)
	require.Equal(t, "kprobe", c.LegacyName("k"))

	typ, err = c.Resolve("kk")
	require.NoError(t, err)
	require.Equal(t, Kretprobe, typ)
}

func TestDefaultIsCopy(t *testing.T) {
	c := Default()
	c[0].Name = "changed"

	name, ok := Name("k")
	require.True(t, ok)
	require.Equal(t, "kprobe", name)
}

func TestCatalogUnique(t *testing.T) {
	tokens := map[string]string{}
	types := map[Type]string{}

	for _, it := range Default() {
		for _, tok := range []string{it.Name, it.Abbr} {
			if prev, ok := tokens[tok]; ok && prev != it.Name {
				t.Errorf("token %q used by %v and %v", tok, prev, it.Name)
			}

			tokens[tok] = it.Name
		}

		require.NotContains(t, types, it.Type)
		types[it.Type] = it.Name
	}

	require.Len(t, types, int(numTypes)-1, "every type but Invalid has an entry")
}

func TestTypeClasses(t *testing.T) {
	require.True(t, Kprobe.Kernel())
	require.True(t, Kretfunc.Kernel())
	require.False(t, Uprobe.Kernel())

	require.True(t, Usdt.User())
	require.False(t, Tracepoint.User())

	require.True(t, Kretprobe.Return())
	require.True(t, Uretprobe.Return())
	require.False(t, Kprobe.Return())

	require.Equal(t, "asyncwatchpoint", Asyncwatchpoint.String())
	require.Panics(t, func() { _ = numTypes.String() })
}

func TestLookupLogTopic(t *testing.T) {
	var buf bytes.Buffer

	old := tlog.DefaultLogger
	t.Cleanup(func() { tlog.DefaultLogger = old })

	tlog.DefaultLogger = tlog.New(&buf)

	_, ok := Lookup("kr")
	require.True(t, ok)
	require.Zero(t, buf.Len())

	tlog.DefaultLogger.SetVerbosity("probe_lookup")

	_, err := Resolve("kr")
	require.NoError(t, err)
	require.NotZero(t, buf.Len())
}
