package portapps

import (
	"os"
	"path/filepath"
	"strings"
)

// Paths derives every location used by the installer as a pure function of
// the chosen root. Nothing here touches the filesystem.
type Paths struct {
	Root string
	Home string
}

func NewPaths(root string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Paths{Root: abs, Home: home}, nil
}

// RegistryFiles lists the wine configuration store files for this prefix.
func (p *Paths) RegistryFiles() []string {
	return []string{
		filepath.Join(p.Root, "system.reg"),
		filepath.Join(p.Root, "user.reg"),
		filepath.Join(p.Root, "userdef.reg"),
	}
}

func (p *Paths) UserReg() string {
	return filepath.Join(p.Root, "user.reg")
}

func (p *Paths) DriveC() string {
	return filepath.Join(p.Root, "drive_c")
}

func (p *Paths) System32() string {
	return filepath.Join(p.DriveC(), "windows", "system32")
}

// NtDLL is the core system library used for the prefix bit-width check.
func (p *Paths) NtDLL() string {
	return filepath.Join(p.System32(), "ntdll.dll")
}

// RuntimeLib is the shared library affected by the known vcrun2019 defect.
func (p *Paths) RuntimeLib() string {
	return filepath.Join(p.System32(), runtimeLibName)
}

func (p *Paths) LogDir() string {
	return filepath.Join(p.Root, "logs")
}

func (p *Paths) LogFile(op string) string {
	return filepath.Join(p.LogDir(), op+".log")
}

// Marker is the sentinel created once after dependency installation.
func (p *Paths) Marker() string {
	return filepath.Join(p.Root, ".winetricks_done")
}

// AppDir is the destination for one application's extracted tree.
func (p *Paths) AppDir(name string) string {
	return filepath.Join(p.DriveC(), "PortableApps", name)
}

// LauncherDir is where generated desktop entries go.
func (p *Paths) LauncherDir() string {
	return filepath.Join(p.Home, ".local", "share", "applications")
}

// LauncherFile is the fixed desktop entry path for an app name.
func (p *Paths) LauncherFile(name string) string {
	return filepath.Join(p.LauncherDir(), "portapps-"+strings.ToLower(name)+".desktop")
}

// WindowsPath converts a destination under drive_c to the C:\ form used in
// launcher Exec lines.
func (p *Paths) WindowsPath(dest string) string {
	rel, err := filepath.Rel(p.DriveC(), dest)
	if err != nil {
		return dest
	}
	return `C:\` + strings.ReplaceAll(rel, "/", `\`)
}

// LogFiles returns the paths surfaced after a fatal error, existing or not.
func (p *Paths) LogFiles() []string {
	return []string{
		p.LogFile("wineboot"),
		p.LogFile("winetricks-win7"),
		p.LogFile("winetricks-verbs"),
		p.LogFile("winetricks-win7-reassert"),
		p.LogFile("repair-unpack"),
		p.LogFile("repair-extract"),
		p.LogFile("dlloverrides"),
		p.LogFile("theme-refresh"),
	}
}
