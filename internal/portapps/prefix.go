package portapps

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	regPollAttempts = 200
	regPollInterval = 100 * time.Millisecond
)

// wineEnv returns the environment entries binding wine to this prefix.
func wineEnv(p *Paths) []string {
	return []string{
		"WINEPREFIX=" + p.Root,
		"WINEARCH=win64",
	}
}

// registryPresent reports whether any configuration store file exists.
func registryPresent(p *Paths) bool {
	for _, f := range p.RegistryFiles() {
		if _, err := os.Stat(f); err == nil {
			return true
		}
	}
	return false
}

// EnsureReady initializes the prefix exactly once and verifies it is the
// 64-bit variant. Re-running against an initialized prefix performs no
// subprogram call.
func EnsureReady(s *Settings, p *Paths, r Runner) error {
	if err := os.MkdirAll(p.LogDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create prefix directories: %w", err)
	}

	if !registryPresent(p) {
		step("Initializing wine prefix at %s", p.Root)
		logPath := p.LogFile("wineboot")
		if err := r.RunLogged("Initializing prefix", logPath, wineEnv(p), "wineboot", "--init"); err != nil {
			return err
		}
		if err := waitForRegistry(p, logPath); err != nil {
			return err
		}
	} else {
		debugf("registry files already present in %s, skipping wineboot\n", p.Root)
	}

	return check64Bit(p)
}

// waitForRegistry polls for the registry files wineboot creates
// asynchronously. Bounded at regPollAttempts * regPollInterval (~20s).
func waitForRegistry(p *Paths, logPath string) error {
	for i := 0; i < regPollAttempts; i++ {
		if registryPresent(p) {
			return nil
		}
		time.Sleep(regPollInterval)
	}
	return fmt.Errorf("prefix initialization timed out waiting for registry files\n%s",
		tailOfFile(logPath, 15))
}

// check64Bit rejects a pre-existing 32-bit prefix. A prefix with no ntdll
// yet is left to wineboot to populate.
func check64Bit(p *Paths) error {
	ntdll := p.NtDLL()
	if _, err := os.Stat(ntdll); err != nil {
		debugf("no ntdll.dll yet at %s\n", ntdll)
		return nil
	}
	if !is64BitPE(ntdll) {
		return fmt.Errorf("prefix at %s is not a 64-bit wine prefix (ntdll.dll is not AMD64)", p.Root)
	}
	return nil
}

// tailOfFile returns up to n trailing lines of a log for error messages.
func tailOfFile(path string, n int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
