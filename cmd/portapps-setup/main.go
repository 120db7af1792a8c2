package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"

	"portapps/internal/portapps"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			fmt.Printf("\n[INFO] Received %v. Cancelling...\n", sig)
			cancel()
			// Give running commands a moment to die, then allow a second
			// interrupt to force an immediate exit.
			select {
			case <-sigs:
				fmt.Println("\n[FATAL] Second interrupt received. Forcing immediate exit.")
				os.Exit(130)
			case <-time.After(5 * time.Second):
			}
		case <-ctx.Done():
		}
	}()

	// Silence wine's own diagnostic spam for every child we spawn.
	os.Setenv("WINEDEBUG", "-all")

	settings, err := portapps.LoadSettings(portapps.ConfigFile())
	if err != nil {
		fail(nil, err)
	}

	root, err := portapps.ResolveRoot(settings.Root)
	if err != nil {
		fail(nil, err)
	}
	settings.Root = root

	paths, err := portapps.NewPaths(root)
	if err != nil {
		fail(nil, err)
	}

	apps, ok := selectApps()
	if !ok {
		return
	}
	wantTheme := portapps.AskForConfirmation(nil, "Apply the dark theme to the prefix?")

	if err := portapps.CheckTools("wine", "wineboot", "wineserver", settings.Winetricks, "cabextract"); err != nil {
		fail(nil, err)
	}

	runner := portapps.NewExec(ctx)

	if err := portapps.EnsureReady(settings, paths, runner); err != nil {
		fail(paths, err)
	}
	if err := portapps.InstallDeps(settings, paths, runner); err != nil {
		fail(paths, err)
	}
	if err := portapps.ApplyOverrides(settings, paths, runner); err != nil {
		fail(paths, err)
	}
	if wantTheme {
		if err := portapps.PatchTheme(settings, paths, runner); err != nil {
			fail(paths, err)
		}
	}

	installer := &portapps.Installer{Settings: settings, Paths: paths, Runner: runner}
	for _, app := range apps {
		if err := installer.Install(app); err != nil {
			fail(paths, err)
		}
	}

	color.Success.Println("\nAll done.")
}

// selectApps shows the installation menu. The second return value is false
// when the user chose to quit.
func selectApps() ([]portapps.App, bool) {
	fmt.Println()
	fmt.Println("1) Install Photoshop")
	fmt.Println("2) Install Lightroom")
	fmt.Println("3) Install both")
	fmt.Println("4) Set up the prefix only")
	fmt.Println("q) Quit")
	choice, err := portapps.AskLine("Choice:")
	if err != nil {
		fail(nil, err)
	}
	switch strings.ToLower(choice) {
	case "1":
		return []portapps.App{portapps.Photoshop}, true
	case "2":
		return []portapps.App{portapps.Lightroom}, true
	case "3":
		return []portapps.App{portapps.Photoshop, portapps.Lightroom}, true
	case "4":
		return nil, true
	case "q", "quit":
		return nil, false
	default:
		fail(nil, fmt.Errorf("invalid menu choice: %q", choice))
		return nil, false
	}
}

// fail prints the error plus the log locations and exits 1.
func fail(p *portapps.Paths, err error) {
	color.Error.Printf("Error: %v\n", err)
	if p != nil {
		fmt.Println("Logs for this run:")
		for _, f := range p.LogFiles() {
			fmt.Printf("  %s\n", f)
		}
		portapps.OfferLogViewer(p)
	}
	os.Exit(1)
}
