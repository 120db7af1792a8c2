package portapps

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Settings holds everything resolved at startup: the chosen prefix root,
// where to look for application archives, and which external binaries to
// call. It is constructed once and passed explicitly to every component.
type Settings struct {
	Root       string // installation root (wine prefix)
	ArchiveDir string // directory searched for <App>Portable archives
	Wine       string // wine binary
	Winetricks string // winetricks binary
}

// ConfigFile returns the per-user config path, honoring XDG_CONFIG_HOME.
func ConfigFile() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "portapps.conf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "portapps.conf")
}

// LoadSettings reads the KEY=VALUE config file (if present), merges
// PORTAPPS_* environment overrides and fills in defaults.
func LoadSettings(path string) (*Settings, error) {
	values := make(map[string]string)

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			val = strings.Trim(val, `"'`)
			values[key] = val
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	// PORTAPPS_* env vars override the file.
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "PORTAPPS_") {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				values[parts[0]] = parts[1]
			}
		}
	}

	s := &Settings{
		Root:       values["PORTAPPS_PREFIX"],
		ArchiveDir: values["PORTAPPS_ARCHIVE_DIR"],
		Wine:       values["PORTAPPS_WINE"],
		Winetricks: values["PORTAPPS_WINETRICKS"],
	}
	if s.Root == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			s.Root = filepath.Join(home, ".portapps")
		}
	}
	if s.ArchiveDir == "" {
		s.ArchiveDir = "."
	}
	if s.Wine == "" {
		s.Wine = "wine"
	}
	if s.Winetricks == "" {
		s.Winetricks = "winetricks"
	}
	s.Root = ExpandHome(s.Root)
	s.ArchiveDir = ExpandHome(s.ArchiveDir)
	if values["PORTAPPS_DEBUG"] == "1" {
		Debug = true
	}
	return s, nil
}

// ExpandHome expands a leading ~ or ~/ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
