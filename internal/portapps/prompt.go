package portapps

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// interactiveMu ensures only one interactive prompt reads stdin at a time.
var interactiveMu sync.Mutex

// AskForConfirmation prompts with [Y/n] semantics; empty input means yes.
func AskForConfirmation(p colorPrinter, format string, a ...any) bool {
	interactiveMu.Lock()
	defer interactiveMu.Unlock()

	reader := bufio.NewReader(os.Stdin)
	mainPrompt := fmt.Sprintf(format, a...)
	fullPrompt := fmt.Sprintf("%s [Y/n]: ", mainPrompt)

	for {
		cPrintf(p, "%s", fullPrompt)
		response, err := reader.ReadString('\n')
		if err != nil {
			return false // On error (like Ctrl+D), default to "no"
		}
		response = strings.ToLower(strings.TrimSpace(response))

		if response == "y" || response == "yes" || response == "" {
			return true
		}
		if response == "n" || response == "no" {
			return false
		}
		cPrintln(colWarn, "Invalid input.")
	}
}

// AskLine prompts for one trimmed line of input.
func AskLine(prompt string) (string, error) {
	interactiveMu.Lock()
	defer interactiveMu.Unlock()

	colArrow.Print("-> ")
	colNote.Print(prompt + " ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ResolveRoot asks whether to use the default prefix and, if declined,
// prompts for a custom path. An empty custom path is a fatal input error.
func ResolveRoot(defaultRoot string) (string, error) {
	fmt.Println()
	step("Default installation prefix: %s", defaultRoot)
	if AskForConfirmation(colArrow, "Use the default prefix?") {
		return defaultRoot, nil
	}
	custom, err := AskLine("Enter prefix path:")
	if err != nil {
		return "", err
	}
	if custom == "" {
		return "", fmt.Errorf("empty prefix path")
	}
	return ExpandHome(custom), nil
}
