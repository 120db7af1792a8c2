package portapps

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// fallbackIcon is used when the expected icon is missing from the archive.
const fallbackIcon = "application-x-executable"

// launcherEntry holds the fields of a generated desktop entry.
type launcherEntry struct {
	Name       string
	Exec       string
	WorkingDir string
	Icon       string
	Categories string
}

func (l launcherEntry) render() string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", l.Name)
	fmt.Fprintf(&b, "Exec=%s\n", l.Exec)
	fmt.Fprintf(&b, "Path=%s\n", l.WorkingDir)
	fmt.Fprintf(&b, "Icon=%s\n", l.Icon)
	b.WriteString("Terminal=false\n")
	fmt.Fprintf(&b, "Categories=%s\n", l.Categories)
	b.WriteString("StartupNotify=true\n")
	return b.String()
}

// writeLauncher writes the desktop entry atomically: temp file in the same
// directory, then rename into place.
func writeLauncher(path string, entry launcherEntry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create launcher directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".portapps-launcher-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(entry.render()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o755); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// refreshDesktopIndex asks the desktop environment to re-read launcher
// entries. The tool being absent, or failing, is never an error.
func refreshDesktopIndex(p *Paths) {
	if !HaveTool("update-desktop-database") {
		debugf("update-desktop-database not available, skipping index refresh\n")
		return
	}
	cmd := exec.Command("update-desktop-database", p.LauncherDir())
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		debugf("update-desktop-database: %v\n", err)
	}
}
