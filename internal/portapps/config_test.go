package portapps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := LoadSettings(filepath.Join(home, "does-not-exist.conf"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".portapps"), s.Root)
	assert.Equal(t, ".", s.ArchiveDir)
	assert.Equal(t, "wine", s.Wine)
	assert.Equal(t, "winetricks", s.Winetricks)
}

func TestLoadSettings_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	conf := filepath.Join(t.TempDir(), "portapps.conf")
	content := `# comment
PORTAPPS_PREFIX = "/opt/prefix"
PORTAPPS_ARCHIVE_DIR=/srv/archives
malformed line
PORTAPPS_WINE='wine-staging'
`
	require.NoError(t, os.WriteFile(conf, []byte(content), 0o644))

	s, err := LoadSettings(conf)
	require.NoError(t, err)
	assert.Equal(t, "/opt/prefix", s.Root)
	assert.Equal(t, "/srv/archives", s.ArchiveDir)
	assert.Equal(t, "wine-staging", s.Wine)
}

func TestLoadSettings_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	conf := filepath.Join(t.TempDir(), "portapps.conf")
	require.NoError(t, os.WriteFile(conf, []byte("PORTAPPS_WINE=wine\n"), 0o644))
	t.Setenv("PORTAPPS_WINE", "wine64")

	s, err := LoadSettings(conf)
	require.NoError(t, err)
	assert.Equal(t, "wine64", s.Wine)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "prefix"), ExpandHome("~/prefix"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "rel/path", ExpandHome("rel/path"))
}
