package portapps

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeRunner records every external invocation and lets a test script the
// side effects wine/winetricks/cabextract would have.
type fakeRunner struct {
	calls    []string
	onRun    func(desc, logPath string, env []string, name string, arg ...string) error
	onOutput func(name string, arg ...string) (string, error)
}

func (f *fakeRunner) RunLogged(desc, logPath string, env []string, name string, arg ...string) error {
	f.calls = append(f.calls, name+" "+strings.Join(arg, " "))
	if f.onRun != nil {
		return f.onRun(desc, logPath, env, name, arg...)
	}
	return nil
}

func (f *fakeRunner) Output(name string, arg ...string) (string, error) {
	f.calls = append(f.calls, name+" "+strings.Join(arg, " "))
	if f.onOutput != nil {
		return f.onOutput(name, arg...)
	}
	return "", nil
}

// writePE writes a minimal valid PE file with the given machine word.
func writePE(t *testing.T, path string, machine uint16) {
	t.Helper()
	buf := make([]byte, 0x48)
	buf[0] = 'M'
	buf[1] = 'Z'
	binary.LittleEndian.PutUint32(buf[0x3c:], 0x40)
	buf[0x40] = 'P'
	buf[0x41] = 'E'
	binary.LittleEndian.PutUint16(buf[0x44:], machine)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

// newTestPaths pins HOME to a temp dir so launcher paths stay inside it.
func newTestPaths(t *testing.T) *Paths {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	p, err := NewPaths(filepath.Join(home, "prefix"))
	require.NoError(t, err)
	return p
}

// touch creates an empty file, parents included.
func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func testSettings(root string) *Settings {
	return &Settings{
		Root:       root,
		ArchiveDir: ".",
		Wine:       "wine",
		Winetricks: "winetricks",
	}
}
