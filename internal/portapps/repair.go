package portapps

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// A known defect in wine + vcrun2019 can leave the 32-bit msvcp140.dll in
// the 64-bit system32 directory. The fix re-extracts the correct build from
// the VC redistributable that winetricks already downloaded into its cache.

// libOK reports whether the runtime library is present and actually 64-bit.
func libOK(p *Paths) bool {
	return is64BitPE(p.RuntimeLib())
}

// redistArtifact locates the cached VC_redist.x64.exe produced as a side
// effect of the vcrun2019 verb.
func redistArtifact() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cache, "winetricks", "vcrun2019", "VC_redist.x64.exe"), nil
}

// EnsureRuntimeLib verifies the library after dependency installation and
// repairs it when the 32-bit build got installed.
func EnsureRuntimeLib(p *Paths, r Runner) error {
	if libOK(p) {
		debugf("%s is 64-bit, no repair needed\n", p.RuntimeLib())
		return nil
	}
	cPrintln(colWarn, "Detected broken "+runtimeLibName+" in system32, repairing")
	return repairRuntimeLib(p, r)
}

func repairRuntimeLib(p *Paths, r Runner) error {
	artifact, err := redistArtifact()
	if err != nil {
		return err
	}
	if _, err := os.Stat(artifact); err != nil {
		return fmt.Errorf("cannot repair %s: cached installer %s not found", runtimeLibName, artifact)
	}

	chunkDir, err := os.MkdirTemp("", "portapps-redist-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(chunkDir)

	if err := r.RunLogged("Unpacking VC redistributable", p.LogFile("repair-unpack"), nil,
		"cabextract", "-q", "-d", chunkDir, artifact); err != nil {
		return err
	}

	chunk, err := findChunkWithLib(r, chunkDir)
	if err != nil {
		return err
	}
	debugf("found %s in chunk %s\n", runtimeLibName, chunk)

	libDir, err := os.MkdirTemp("", "portapps-lib-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(libDir)

	if err := r.RunLogged("Extracting "+runtimeLibName, p.LogFile("repair-extract"), nil,
		"cabextract", "-q", "-d", libDir, "-F", runtimeLibName, chunk); err != nil {
		return err
	}

	extracted := filepath.Join(libDir, runtimeLibName)
	if _, err := os.Stat(extracted); err != nil {
		return fmt.Errorf("%s not present after extraction from %s", runtimeLibName, chunk)
	}
	// Self-verification: never replace one broken library with another.
	if !is64BitPE(extracted) {
		return fmt.Errorf("extracted %s is not a 64-bit binary", runtimeLibName)
	}

	dest := p.RuntimeLib()
	if _, err := os.Stat(dest); err == nil {
		backup := dest + ".bak-" + time.Now().Format("20060102-150405")
		if err := os.Rename(dest, backup); err != nil {
			cPrintf(colWarn, "could not back up old %s: %v\n", runtimeLibName, err)
		} else {
			debugf("old library kept as %s\n", backup)
		}
	}

	if err := copyFile(extracted, dest); err != nil {
		return fmt.Errorf("failed to install repaired %s: %w", runtimeLibName, err)
	}

	if !libOK(p) {
		return fmt.Errorf("%s still broken after repair", runtimeLibName)
	}
	step("Repaired %s", runtimeLibName)
	return nil
}

// findChunkWithLib scans the extracted cab chunks in filesystem order for
// the first one whose listing mentions the target library. The
// redistributable carries no manifest, so the listing is the only way in.
func findChunkWithLib(r Runner, chunkDir string) (string, error) {
	entries, err := os.ReadDir(chunkDir)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	target := strings.ToLower(runtimeLibName)
	for _, name := range names {
		chunk := filepath.Join(chunkDir, name)
		out, err := r.Output("cabextract", "-l", chunk)
		if err != nil {
			debugf("cabextract -l %s: %v\n", chunk, err)
			continue
		}
		if strings.Contains(strings.ToLower(out), target) {
			return chunk, nil
		}
	}
	return "", fmt.Errorf("no cabinet chunk in %s contains %s", chunkDir, runtimeLibName)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
