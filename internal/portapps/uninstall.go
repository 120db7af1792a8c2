package portapps

import (
	"fmt"
	"os"
	"path/filepath"
)

// forbiddenRemoveDirs are paths the uninstaller refuses to treat as a
// prefix root or app destination, whatever the configuration says.
var forbiddenRemoveDirs = map[string]struct{}{
	"/":     {},
	"/bin":  {},
	"/boot": {},
	"/dev":  {},
	"/etc":  {},
	"/home": {},
	"/lib":  {},
	"/opt":  {},
	"/proc": {},
	"/root": {},
	"/run":  {},
	"/sbin": {},
	"/sys":  {},
	"/tmp":  {},
	"/usr":  {},
	"/var":  {},
}

// guardedRemoveAll removes a tree after checking it is not a protected
// system path. Absent paths report skipped, not an error.
func guardedRemoveAll(path, what string) error {
	clean := filepath.Clean(path)
	if _, forbidden := forbiddenRemoveDirs[clean]; forbidden {
		return fmt.Errorf("refusing to remove protected path %s", clean)
	}
	if _, err := os.Stat(clean); err != nil {
		if os.IsNotExist(err) {
			step("%s not present, skipped", what)
			return nil
		}
		return err
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("failed to remove %s: %w", clean, err)
	}
	step("Removed %s", what)
	return nil
}

// RemoveApp deletes one application's launcher entry and destination
// directory. Each is independently tolerant of already being absent.
func RemoveApp(p *Paths, app App) error {
	launcher := p.LauncherFile(app.Name)
	if err := os.Remove(launcher); err != nil {
		if os.IsNotExist(err) {
			step("Launcher for %s not present, skipped", app.Name)
		} else {
			return fmt.Errorf("failed to remove launcher %s: %w", launcher, err)
		}
	} else {
		step("Removed launcher %s", launcher)
	}

	if err := guardedRemoveAll(p.AppDir(app.Name), app.Name+" files"); err != nil {
		return err
	}
	refreshDesktopIndex(p)
	return nil
}

// RemoveAll uninstalls both applications and then deletes the whole prefix.
func RemoveAll(p *Paths) error {
	for _, app := range Apps {
		if err := RemoveApp(p, app); err != nil {
			return err
		}
	}
	return guardedRemoveAll(p.Root, "prefix "+p.Root)
}
