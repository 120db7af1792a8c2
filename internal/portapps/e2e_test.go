package portapps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullInstallFlow drives provisioning, dependency installation and an
// app install against one fresh prefix, with the external tools scripted.
func TestFullInstallFlow(t *testing.T) {
	p := newTestPaths(t)
	archiveDir := t.TempDir()
	s := testSettings(p.Root)
	s.ArchiveDir = archiveDir

	makeTarGz(t, filepath.Join(archiveDir, "PhotoshopPortable.tar.gz"), "PhotoshopPortable",
		map[string]string{
			"PhotoshopPortable.exe": "MZ...",
			"photoshop.png":         "png",
		})

	r := &fakeRunner{onRun: func(_, _ string, _ []string, name string, _ ...string) error {
		if name == "wineboot" {
			// Simulate prefix initialization: registry files plus a healthy
			// 64-bit system library set.
			touch(t, filepath.Join(p.Root, "system.reg"))
			touch(t, filepath.Join(p.Root, "user.reg"))
			touch(t, filepath.Join(p.Root, "userdef.reg"))
			writePE(t, p.NtDLL(), machineAMD64)
			writePE(t, p.RuntimeLib(), machineAMD64)
		}
		return nil
	}}

	require.NoError(t, EnsureReady(s, p, r))
	require.NoError(t, InstallDeps(s, p, r))
	require.NoError(t, ApplyOverrides(s, p, r))

	assert.FileExists(t, p.Marker())
	// wineboot + three winetricks phases + one override.
	require.Len(t, r.calls, 5)
	assert.Equal(t, "wineboot --init", r.calls[0])
	assert.Contains(t, r.calls[4], "DllOverrides")

	in := &Installer{Settings: s, Paths: p, Runner: r}
	require.NoError(t, in.Install(Photoshop))

	exe := filepath.Join(p.AppDir("Photoshop"), "PhotoshopPortable.exe")
	assert.FileExists(t, exe)

	launcher, err := os.ReadFile(p.LauncherFile("Photoshop"))
	require.NoError(t, err)
	assert.Contains(t, string(launcher), p.Root)
	assert.Contains(t, string(launcher), `PhotoshopPortable.exe`)

	// A second provisioning + dependency pass performs no further calls.
	callCount := len(r.calls)
	require.NoError(t, EnsureReady(s, p, r))
	require.NoError(t, InstallDeps(s, p, r))
	assert.Equal(t, callCount, len(r.calls))
}
