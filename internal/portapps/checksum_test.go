package portapps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyArchive_Match(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "app.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("payload"), 0o644))

	sum, err := b3sumFile(archive)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(archive+".b3sum", []byte(sum+"  app.tar.gz\n"), 0o644))

	assert.NoError(t, VerifyArchive(archive))
}

func TestVerifyArchive_Mismatch(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "app.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("payload"), 0o644))
	require.NoError(t, os.WriteFile(archive+".b3sum", []byte("deadbeef\n"), 0o644))

	err := VerifyArchive(archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestVerifyArchive_NoSidecarIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "app.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("payload"), 0o644))

	assert.NoError(t, VerifyArchive(archive))
}

func TestB3SumFile_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("same"), 0o644))

	sa, err := b3sumFile(a)
	require.NoError(t, err)
	sb, err := b3sumFile(b)
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
	assert.Len(t, sa, 64)
}
