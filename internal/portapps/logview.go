package portapps

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/term"
)

// OfferLogViewer shows the interactive log browser after a fatal error,
// when there is a terminal to show it on and the user wants it.
func OfferLogViewer(p *Paths) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	if !AskForConfirmation(colArrow, "View the installation logs now?") {
		return
	}
	if err := ViewLogs(p.LogDir()); err != nil {
		cPrintf(colWarn, "log viewer failed: %v\n", err)
	}
}

// ViewLogs runs a full-screen browser over every *.log file in logDir.
// Up/Down selects a log, the right pane scrolls with PgUp/PgDn, and q or
// Escape exits.
func ViewLogs(logDir string) error {
	matches, err := filepath.Glob(filepath.Join(logDir, "*.log"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no log files in %s", logDir)
	}
	sort.Strings(matches)

	app := tview.NewApplication()

	logView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	logView.SetBorder(true)

	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true)
	list.SetTitle("portapps logs")

	show := func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			logView.SetText(fmt.Sprintf("cannot read %s: %v", path, err))
		} else {
			logView.SetText(tview.Escape(string(data)))
		}
		logView.SetTitle(filepath.Base(path))
		logView.ScrollToEnd()
	}

	for _, m := range matches {
		m := m
		list.AddItem(filepath.Base(m), "", 0, func() { show(m) })
	}
	list.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		show(matches[index])
	})
	show(matches[0])

	flex := tview.NewFlex().
		AddItem(list, 30, 0, true).
		AddItem(logView, 0, 1, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape, event.Rune() == 'q':
			app.Stop()
			return nil
		case event.Key() == tcell.KeyTab:
			if app.GetFocus() == list {
				app.SetFocus(logView)
			} else {
				app.SetFocus(list)
			}
			return nil
		}
		return event
	})

	return app.SetRoot(flex, true).Run()
}
