package portapps

// dllOverride forces wine's library resolution for one library.
type dllOverride struct {
	Library string
	Mode    string
}

// dllOverrides is the static override set. msxml6 must use wine's builtin
// implementation; the native one crashes both apps on startup.
var dllOverrides = []dllOverride{
	{"msxml6", "builtin"},
}

// ApplyOverrides writes the DllOverrides keys into the user-scope registry
// through wine's reg tool. Rewriting an existing value is harmless.
func ApplyOverrides(s *Settings, p *Paths, r Runner) error {
	env := wineEnv(p)
	for _, o := range dllOverrides {
		step("Forcing %s to %s", o.Library, o.Mode)
		err := r.RunLogged("Applying DLL override", p.LogFile("dlloverrides"), env,
			s.Wine, "reg", "add", `HKCU\Software\Wine\DllOverrides`,
			"/v", o.Library, "/d", o.Mode, "/f")
		if err != nil {
			return err
		}
	}
	return nil
}
