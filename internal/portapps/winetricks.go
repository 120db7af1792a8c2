package portapps

import (
	"fmt"
	"os"
)

// winVersion is the compatibility mode the whole setup targets. Some verbs
// silently flip it, so it is applied again after the verb installs.
const winVersion = "win7"

// depVerb is one winetricks verb installed into the prefix.
type depVerb struct {
	Name string
}

// depVerbs is the fixed, ordered dependency set: runtime libraries, font
// support and the XML/document libraries the portable apps need.
var depVerbs = []depVerb{
	{"atmlib"},
	{"corefonts"},
	{"fontsmooth-rgb"},
	{"gdiplus"},
	{"msxml3"},
	{"msxml6"},
	{"vcrun2019"},
}

// InstallDeps installs the dependency set exactly once per prefix, gated by
// the marker file. The marker is written only after every phase, including
// the runtime-library repair check, has succeeded; any failure leaves the
// prefix marker-less so a rerun starts from scratch.
func InstallDeps(s *Settings, p *Paths, r Runner) error {
	if _, err := os.Stat(p.Marker()); err == nil {
		step("Dependencies already installed (marker present), skipping winetricks")
		return nil
	}

	env := wineEnv(p)

	step("Setting Windows version to %s", winVersion)
	if err := r.RunLogged("Setting compatibility mode", p.LogFile("winetricks-win7"), env,
		s.Winetricks, "-q", winVersion); err != nil {
		return err
	}

	step("Installing dependency packages (this can take a while)")
	args := []string{"-q"}
	for _, v := range depVerbs {
		args = append(args, v.Name)
	}
	if err := r.RunLogged("Installing winetricks verbs", p.LogFile("winetricks-verbs"), env,
		s.Winetricks, args...); err != nil {
		return err
	}

	// Verb installs can reset the Windows version as a side effect.
	step("Re-asserting Windows version %s", winVersion)
	if err := r.RunLogged("Re-asserting compatibility mode", p.LogFile("winetricks-win7-reassert"), env,
		s.Winetricks, "-q", winVersion); err != nil {
		return err
	}

	if err := EnsureRuntimeLib(p, r); err != nil {
		return err
	}

	marker, err := os.OpenFile(p.Marker(), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create marker file: %w", err)
	}
	marker.Close()
	step("Dependency installation complete")
	return nil
}
