package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	flag "github.com/spf13/pflag"

	"portapps/internal/portapps"
)

func main() {
	removePhotoshop := flag.Bool("photoshop", false, "Remove Photoshop only")
	removeLightroom := flag.Bool("lightroom", false, "Remove Lightroom only")
	removeEverything := flag.Bool("all", false, "Remove both apps and the whole prefix")
	help := flag.BoolP("help", "h", false, "Show usage")
	flag.Parse()

	if *help {
		usage()
		return
	}

	settings, err := portapps.LoadSettings(portapps.ConfigFile())
	if err != nil {
		fail(err)
	}
	root, err := portapps.ResolveRoot(settings.Root)
	if err != nil {
		fail(err)
	}
	paths, err := portapps.NewPaths(root)
	if err != nil {
		fail(err)
	}

	// One-shot flag-driven invocation.
	if *removePhotoshop || *removeLightroom || *removeEverything {
		if *removeEverything {
			if err := portapps.RemoveAll(paths); err != nil {
				fail(err)
			}
			return
		}
		if *removePhotoshop {
			if err := portapps.RemoveApp(paths, portapps.Photoshop); err != nil {
				fail(err)
			}
		}
		if *removeLightroom {
			if err := portapps.RemoveApp(paths, portapps.Lightroom); err != nil {
				fail(err)
			}
		}
		return
	}

	// Interactive repeating menu.
	for {
		fmt.Println()
		fmt.Println("1) Remove Photoshop")
		fmt.Println("2) Remove Lightroom")
		fmt.Println("3) Remove everything (both apps and the prefix)")
		fmt.Println("q) Exit")
		choice, err := portapps.AskLine("Choice:")
		if err != nil {
			fail(err)
		}
		switch strings.ToLower(choice) {
		case "1":
			if err := portapps.RemoveApp(paths, portapps.Photoshop); err != nil {
				fail(err)
			}
		case "2":
			if err := portapps.RemoveApp(paths, portapps.Lightroom); err != nil {
				fail(err)
			}
		case "3":
			if err := portapps.RemoveAll(paths); err != nil {
				fail(err)
			}
			return
		case "q", "quit", "exit":
			return
		default:
			fail(fmt.Errorf("invalid menu choice: %q", choice))
		}
	}
}

func usage() {
	fmt.Println("Usage: portapps-remove [flag]")
	fmt.Println("Without flags an interactive menu is shown.")
	flag.PrintDefaults()
}

func fail(err error) {
	color.Error.Printf("Error: %v\n", err)
	os.Exit(1)
}
