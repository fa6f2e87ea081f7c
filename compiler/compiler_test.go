package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/15yangyyyyy/mybpftrace/compiler/ast"
	"github.com/15yangyyyyy/mybpftrace/compiler/config"
	"github.com/15yangyyyyy/mybpftrace/compiler/probe"
)

type fakeMatcher struct {
	matches map[string][]string
	modules map[string][]string
}

func (m fakeMatcher) Matches(p Point) []string { return m.matches[p.Func] }

func (m fakeMatcher) FuncModules(fn string) []string { return m.modules[fn] }

func TestCheck(t *testing.T) {
	text := `// SPDX-License-Identifier: GPL-2.0-only
BEGIN { printf("hi\n"); }

k:nf_tables:nft_do_chain,
kretprobe:do_sys_open,
tracepoint:sched:sched_switch
{
	@[probe] = count();
}

f:sys_* { }
uprobe:/bin/bash:readline { }
`

	res, err := Check(context.Background(), config.Default(), "test.bt", []byte(text), fakeMatcher{
		matches: map[string][]string{"sys_*": {"vmlinux:sys_read", "ext4:sys_x"}},
		modules: map[string][]string{"sys_read": {"vmlinux"}, "sys_x": {"ext4"}},
	})
	require.NoError(t, err)

	require.Equal(t, "GPL", res.License)
	require.Len(t, res.Points, 6)

	require.Equal(t, []probe.Type{probe.Kprobe, probe.Kretprobe, probe.Uprobe, probe.Begin, probe.Tracepoint, probe.Kfunc}, res.Types.Slice())

	p := res.Points[1]
	require.Equal(t, probe.Kprobe, p.Type)
	require.Equal(t, "kprobe", p.Provider)
	require.Equal(t, "nf_tables", p.Target)
	require.Equal(t, "nft_do_chain", p.Func)

	p = res.Points[4]
	require.Equal(t, "kfunc", p.Provider)
	require.True(t, p.NeedExpansion)

	require.Equal(t, []string{"ext4", "nf_tables", "sched", "vmlinux"}, res.Modules)
}

func TestCheckLicenseDefault(t *testing.T) {
	cfg := config.Default()
	cfg.License = "Dual MIT/GPL"

	res, err := Check(context.Background(), cfg, "", []byte("BEGIN {}"), nil)
	require.NoError(t, err)
	require.Equal(t, "Dual MIT/GPL", res.License)
	require.Empty(t, res.Modules)
}

func TestCheckUnknownProvider(t *testing.T) {
	_, err := Check(context.Background(), config.Default(), "x.bt", []byte("BEGIN {}\n  kprobee:f {}"), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "x.bt:2:3")

	var uerr probe.UnknownTypeError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, "kprobee", uerr.Token)
}

func TestCheckTooManyProbes(t *testing.T) {
	cfg := config.Default()
	cfg.MaxProbes = 2

	_, err := Check(context.Background(), cfg, "", []byte("k:a,k:b,k:c {}"), nil)

	var perr TooManyProbesError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, TooManyProbesError{N: 3, Max: 2}, perr)
}

func TestCheckParseError(t *testing.T) {
	_, err := Check(context.Background(), config.Default(), "", []byte("kprobe:f {"), nil)
	require.Error(t, err)
}

func TestCheckFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a.bt")
	require.NoError(t, os.WriteFile(name, []byte("// SPDX-License-Identifier: MIT\ni:s:1 { exit(); }\n"), 0o644))

	res, err := CheckFile(context.Background(), config.Default(), name, nil)
	require.NoError(t, err)
	require.Equal(t, "MIT", res.License)
	require.Len(t, res.Points, 1)
	require.Equal(t, probe.Interval, res.Points[0].Type)
	require.Equal(t, 1, res.Points[0].Freq)

	_, err = CheckFile(context.Background(), config.Default(), filepath.Join(t.TempDir(), "none.bt"), nil)
	require.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		provider string
		parts    []string
		want     Point
	}{
		{provider: "BEGIN", want: Point{Type: probe.Begin, Provider: "BEGIN"}},
		{provider: "kr", parts: []string{"vfs_read"}, want: Point{Type: probe.Kretprobe, Provider: "kretprobe", Func: "vfs_read"}},
		{provider: "ur", parts: []string{"/bin/sh", "main"}, want: Point{Type: probe.Uretprobe, Provider: "uretprobe", Target: "/bin/sh", Func: "main"}},
		{provider: "U", parts: []string{"/lib/libc.so", "libc", "setjmp"}, want: Point{Type: probe.Usdt, Provider: "usdt", Target: "/lib/libc.so", Ns: "libc", Func: "setjmp"}},
		{provider: "t", parts: []string{"syscalls", "sys_enter_*"}, want: Point{Type: probe.Tracepoint, Provider: "tracepoint", Target: "syscalls", Func: "sys_enter_*", NeedExpansion: true}},
		{provider: "rt", parts: []string{"sched_switch"}, want: Point{Type: probe.Rawtracepoint, Provider: "rawtracepoint", Func: "sched_switch"}},
		{provider: "it", parts: []string{"task"}, want: Point{Type: probe.Iter, Provider: "iter", Func: "task"}},
		{provider: "profile", parts: []string{"hz", "99"}, want: Point{Type: probe.Profile, Provider: "profile", Target: "hz", Freq: 99}},
		{provider: "s", parts: []string{"faults"}, want: Point{Type: probe.Software, Provider: "software", Target: "faults"}},
		{provider: "h", parts: []string{"cache-misses", "1000000"}, want: Point{Type: probe.Hardware, Provider: "hardware", Target: "cache-misses", Freq: 1000000}},
		{provider: "w", parts: []string{"0x10000000", "8", "rw"}, want: Point{Type: probe.Watchpoint, Provider: "watchpoint", Target: "0x10000000", Len: 8, Mode: "rw"}},
		{provider: "fr", parts: []string{"vmlinux", "vfs_[rw]*"}, want: Point{Type: probe.Kretfunc, Provider: "kretfunc", Target: "vmlinux", Func: "vfs_[rw]*", NeedExpansion: true}},
	}

	for _, test := range tests {
		t.Run(test.provider, func(t *testing.T) {
			ap := &ast.AttachPoint{Provider: test.provider, Parts: test.parts}

			got, err := Classify(probe.Default(), ap)
			require.NoError(t, err)

			test.want.AP = ap
			require.Equal(t, test.want, got)
		})
	}
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		provider string
		parts    []string
	}{
		{provider: "nosuch"},
		{provider: "BEGIN", parts: []string{"x"}},
		{provider: "kprobe"},
		{provider: "uprobe", parts: []string{"main"}},
		{provider: "tracepoint", parts: []string{"sched"}},
		{provider: "profile", parts: []string{"hz", "fast"}},
		{provider: "interval", parts: []string{"s", "0"}},
		{provider: "watchpoint", parts: []string{"0x1", "8"}},
	}

	for _, test := range tests {
		t.Run(test.provider, func(t *testing.T) {
			_, err := Classify(probe.Default(), &ast.AttachPoint{Provider: test.provider, Parts: test.parts})
			require.Error(t, err)
		})
	}
}

func TestHasWildcard(t *testing.T) {
	require.True(t, HasWildcard("sys_*"))
	require.True(t, HasWildcard("vfs_[rw]"))
	require.False(t, HasWildcard("arr["))
	require.False(t, HasWildcard("do_nanosleep"))
	require.False(t, HasWildcard(""))
}

func TestModules(t *testing.T) {
	points := []Point{
		{Type: probe.Kprobe, Func: "do_nanosleep"},
		{Type: probe.Kprobe, Target: "ext4", Func: "ext4_sync_fs"},
		{Type: probe.Kretfunc, Target: "xfs", Func: "xfs_sync"},
		{Type: probe.Kfunc, Func: "vfs_*", NeedExpansion: true},
		{Type: probe.Uprobe, Target: "/bin/sh", Func: "main"},
		{Type: probe.Tracepoint, Target: "sched", Func: "sched_switch"},
		{Type: probe.Kprobe, Target: "ext4", Func: "ext4_*", NeedExpansion: true},
	}

	require.Equal(t, []string{"ext4", "sched", "xfs"}, Modules(points, nil))

	m := fakeMatcher{
		matches: map[string][]string{
			"vfs_*":  {"vmlinux:vfs_read", "vfs_write"},
			"ext4_*": {"ext4:ext4_file_open"},
		},
		modules: map[string][]string{
			"vfs_read":       {"vmlinux"},
			"vfs_write":      {"vmlinux", "overlay"},
			"ext4_file_open": {"ext4"},
		},
	}

	require.Equal(t, []string{"ext4", "overlay", "sched", "vmlinux", "xfs"}, Modules(points, m))
}

func TestLicense(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "GPL v2 only", in: "// SPDX-License-Identifier: GPL-2.0-only\nBEGIN {}\n", want: "GPL"},
		{name: "GPL v2 or later", in: "// SPDX-License-Identifier: GPL-2.0-or-later\nBEGIN {}\n", want: "GPL"},
		{name: "GPL v1", in: "// SPDX-License-Identifier: GPL-1.0-only\nBEGIN {}\n", want: "GPL-1.0-only"},
		{name: "GPL v3", in: "// SPDX-License-Identifier: GPL-3.0-only\nBEGIN {}\n", want: "GPL-3.0-only"},
		{name: "Apache 2", in: "\n// SPDX-License-Identifier: Apache-2.0\nBEGIN {}\n", want: "Apache-2.0"},
		{name: "none", in: "BEGIN {}\n", want: ""},
		{name: "no newline", in: "// SPDX-License-Identifier: MIT", want: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, License([]byte(test.in)))
		})
	}
}
