package portapps

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths_Derivations(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := filepath.Join(home, "prefix")
	p, err := NewPaths(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "drive_c"), p.DriveC())
	assert.Equal(t, filepath.Join(root, "drive_c", "windows", "system32"), p.System32())
	assert.Equal(t, filepath.Join(root, "logs", "wineboot.log"), p.LogFile("wineboot"))
	assert.Equal(t, filepath.Join(root, ".winetricks_done"), p.Marker())
	assert.Equal(t, filepath.Join(root, "drive_c", "PortableApps", "Photoshop"), p.AppDir("Photoshop"))
	assert.Equal(t,
		filepath.Join(home, ".local", "share", "applications", "portapps-photoshop.desktop"),
		p.LauncherFile("Photoshop"))

	regs := p.RegistryFiles()
	require.Len(t, regs, 3)
	assert.Contains(t, regs, filepath.Join(root, "system.reg"))
	assert.Contains(t, regs, filepath.Join(root, "user.reg"))
	assert.Contains(t, regs, filepath.Join(root, "userdef.reg"))
}

func TestPaths_WindowsPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p, err := NewPaths(filepath.Join(home, "prefix"))
	require.NoError(t, err)

	exe := filepath.Join(p.AppDir("Photoshop"), "PhotoshopPortable.exe")
	assert.Equal(t, `C:\PortableApps\Photoshop\PhotoshopPortable.exe`, p.WindowsPath(exe))
}

func TestPaths_RelativeRootBecomesAbsolute(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p, err := NewPaths("some/rel/prefix")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p.Root))
}
