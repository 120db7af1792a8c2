package portapps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureReady_SkipsInitWhenRegistryPresent(t *testing.T) {
	p := newTestPaths(t)
	touch(t, filepath.Join(p.Root, "system.reg"))

	r := &fakeRunner{}
	require.NoError(t, EnsureReady(testSettings(p.Root), p, r))
	assert.Empty(t, r.calls, "provisioning an initialized prefix must run nothing")
	assert.DirExists(t, p.LogDir())
}

func TestEnsureReady_RunsWinebootOnFreshPrefix(t *testing.T) {
	p := newTestPaths(t)

	r := &fakeRunner{onRun: func(_, _ string, env []string, name string, arg ...string) error {
		// wineboot creates the registry files asynchronously; simulate the
		// synchronous best case.
		touch(t, filepath.Join(p.Root, "user.reg"))
		assert.Contains(t, env, "WINEPREFIX="+p.Root)
		assert.Contains(t, env, "WINEARCH=win64")
		return nil
	}}
	require.NoError(t, EnsureReady(testSettings(p.Root), p, r))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "wineboot --init", r.calls[0])
}

func TestEnsureReady_RejectsThirtyTwoBitPrefix(t *testing.T) {
	p := newTestPaths(t)
	touch(t, filepath.Join(p.Root, "system.reg"))
	writePE(t, p.NtDLL(), machineI386)

	err := EnsureReady(testSettings(p.Root), p, &fakeRunner{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a 64-bit")
}

func TestEnsureReady_AcceptsSixtyFourBitPrefix(t *testing.T) {
	p := newTestPaths(t)
	touch(t, filepath.Join(p.Root, "system.reg"))
	writePE(t, p.NtDLL(), machineAMD64)

	assert.NoError(t, EnsureReady(testSettings(p.Root), p, &fakeRunner{}))
}

func TestRegistryPresent(t *testing.T) {
	p := newTestPaths(t)
	assert.False(t, registryPresent(p))
	touch(t, filepath.Join(p.Root, "userdef.reg"))
	assert.True(t, registryPresent(p))
}

func TestTailOfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.log")
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, "line")
	}
	lines[29] = "last"
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	tail := tailOfFile(path, 5)
	assert.Equal(t, 5, len(strings.Split(tail, "\n")))
	assert.True(t, strings.HasSuffix(tail, "last"))

	assert.Empty(t, tailOfFile(filepath.Join(t.TempDir(), "missing.log"), 5))
}
