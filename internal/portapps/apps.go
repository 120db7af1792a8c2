package portapps

import (
	"fmt"
	"os"
	"path/filepath"
)

// App statically describes one installable application. Exactly two exist.
type App struct {
	Name        string // destination directory and launcher display name
	ArchiveBase string // archive filename without extension
	EntryPoint  string // main executable inside the extracted tree
	Icon        string // expected icon file inside the extracted tree
	Categories  string // desktop entry categories
}

var (
	Photoshop = App{
		Name:        "Photoshop",
		ArchiveBase: "PhotoshopPortable",
		EntryPoint:  "PhotoshopPortable.exe",
		Icon:        "photoshop.png",
		Categories:  "Graphics;",
	}
	Lightroom = App{
		Name:        "Lightroom",
		ArchiveBase: "LightroomPortable",
		EntryPoint:  "LightroomPortable.exe",
		Icon:        "lightroom.png",
		Categories:  "Graphics;Photography;",
	}
)

// Apps enumerates every known application, in menu order.
var Apps = []App{Photoshop, Lightroom}

// Installer wires the resolved settings, derived paths and the command
// runner together for app installation.
type Installer struct {
	Settings *Settings
	Paths    *Paths
	Runner   Runner
}

// Install extracts one application into the prefix and generates its
// launcher. Reinstallation is always a clean overwrite: the destination is
// cleared only after the archive is known to exist, so a missing archive
// leaves a previous installation untouched.
func (in *Installer) Install(app App) error {
	archive, err := FindArchive(in.Settings.ArchiveDir, app.ArchiveBase)
	if err != nil {
		return err
	}
	if err := VerifyArchive(archive); err != nil {
		return err
	}

	dest := in.Paths.AppDir(app.Name)
	if filepath.Clean(dest) == "/" {
		return fmt.Errorf("refusing to install into filesystem root")
	}
	step("Installing %s into %s", app.Name, dest)
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to clear destination %s: %w", dest, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", dest, err)
	}

	if err := ExtractArchive(archive, dest); err != nil {
		return err
	}
	if !hasEntriesWithinDepth(dest) {
		return fmt.Errorf("archive %s extracted to an empty tree", archive)
	}

	entryPoint := filepath.Join(dest, app.EntryPoint)
	if _, err := os.Stat(entryPoint); err != nil {
		return fmt.Errorf("entry point %s missing after extraction", entryPoint)
	}

	icon := filepath.Join(dest, app.Icon)
	if _, err := os.Stat(icon); err != nil {
		cPrintf(colWarn, "icon %s not found, using generic icon\n", icon)
		icon = fallbackIcon
	}

	entry := launcherEntry{
		Name: app.Name,
		Exec: fmt.Sprintf(`env WINEPREFIX=%q %s %q`,
			in.Paths.Root, in.Settings.Wine, in.Paths.WindowsPath(entryPoint)),
		WorkingDir: dest,
		Icon:       icon,
		Categories: app.Categories,
	}
	launcherPath := in.Paths.LauncherFile(app.Name)
	if err := writeLauncher(launcherPath, entry); err != nil {
		return fmt.Errorf("failed to write launcher for %s: %w", app.Name, err)
	}
	refreshDesktopIndex(in.Paths)

	step("%s installed, launcher at %s", app.Name, launcherPath)
	return nil
}
