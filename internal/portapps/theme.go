package portapps

import (
	"fmt"
	"os"
	"strings"
)

// colorsSection is the user.reg section holding the window color scheme.
// Wine writes section headers with a trailing serial, so matching is done
// on the bracketed name only.
const colorsSection = `[Control Panel\\Colors]`

// darkColors is the fixed dark color scheme, header included.
var darkColors = []string{
	colorsSection + ` 1491598989`,
	`"ActiveBorder"="49 54 58"`,
	`"ActiveTitle"="49 54 58"`,
	`"AppWorkSpace"="60 64 72"`,
	`"Background"="49 54 58"`,
	`"ButtonAlternativeFace"="200 0 0"`,
	`"ButtonDkShadow"="154 154 154"`,
	`"ButtonFace"="49 54 58"`,
	`"ButtonHilight"="119 126 140"`,
	`"ButtonLight"="60 64 72"`,
	`"ButtonShadow"="60 64 72"`,
	`"ButtonText"="219 220 222"`,
	`"GradientActiveTitle"="49 54 58"`,
	`"GradientInactiveTitle"="49 54 58"`,
	`"GrayText"="155 155 155"`,
	`"Hilight"="119 126 140"`,
	`"HilightText"="255 255 255"`,
	`"InactiveBorder"="49 54 58"`,
	`"InactiveTitle"="49 54 58"`,
	`"InactiveTitleText"="219 220 222"`,
	`"InfoText"="159 167 180"`,
	`"InfoWindow"="49 54 58"`,
	`"Menu"="49 54 58"`,
	`"MenuBar"="49 54 58"`,
	`"MenuHilight"="119 126 140"`,
	`"MenuText"="219 220 222"`,
	`"Scrollbar"="73 78 88"`,
	`"TitleText"="219 220 222"`,
	`"Window"="35 38 41"`,
	`"WindowFrame"="49 54 58"`,
	`"WindowText"="219 220 222"`,
}

// regSection is one bracketed block of a wine registry file.
type regSection struct {
	Header string   // full header line, empty for the preamble
	Lines  []string // body lines, headers excluded
}

// parseRegSections splits a registry file into a preamble plus sections.
// Everything is kept verbatim so the file can be reassembled byte-identical.
func parseRegSections(data string) []regSection {
	sections := []regSection{{}}
	cur := 0
	for _, line := range strings.Split(data, "\n") {
		if strings.HasPrefix(line, "[") {
			sections = append(sections, regSection{Header: line})
			cur = len(sections) - 1
			continue
		}
		sections[cur].Lines = append(sections[cur].Lines, line)
	}
	return sections
}

// sectionNamed reports whether a header line opens the given section,
// ignoring the trailing serial wine appends.
func sectionNamed(header, name string) bool {
	return header == name || strings.HasPrefix(header, name+" ")
}

// PatchTheme rewrites the color-scheme section of user.reg, replacing the
// existing block if present or appending it otherwise. All other sections
// stay byte-identical and in their original order.
func PatchTheme(s *Settings, p *Paths, r Runner) error {
	userReg := p.UserReg()
	data, err := os.ReadFile(userReg)
	if err != nil {
		return fmt.Errorf("cannot patch theme, user.reg missing (prefix never initialized?): %w", err)
	}

	sections := parseRegSections(string(data))
	replaced := false
	var out []string
	for _, sec := range sections {
		if sec.Header != "" && sectionNamed(sec.Header, colorsSection) {
			out = append(out, darkColors...)
			replaced = true
			continue
		}
		if sec.Header != "" {
			out = append(out, sec.Header)
		}
		out = append(out, sec.Lines...)
	}
	if !replaced {
		// Trailing newline in the original shows up as a final empty line;
		// insert the block before it so the file still ends with a newline.
		if n := len(out); n > 0 && out[n-1] == "" {
			out = append(out[:n-1], "")
			out = append(out, darkColors...)
			out = append(out, "")
		} else {
			out = append(out, "")
			out = append(out, darkColors...)
		}
	}

	if err := os.WriteFile(userReg, []byte(strings.Join(out, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to write user.reg: %w", err)
	}
	step("Applied dark theme to %s", userReg)

	// Best effort: make the running wineserver pick up the edited file.
	env := wineEnv(p)
	if err := r.RunLogged("Stopping wineserver", p.LogFile("theme-refresh"), env, "wineserver", "-k"); err != nil {
		debugf("wineserver -k: %v\n", err)
	}
	if err := r.RunLogged("Refreshing prefix", p.LogFile("theme-refresh"), env, "wineboot", "-u"); err != nil {
		debugf("wineboot -u: %v\n", err)
	}
	return nil
}
