package portapps

import (
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// spinner is a cosmetic progress indicator shown while an external command
// blocks. Stop is safe to call more than once and must run on every exit
// path so the terminal is never left corrupted.
type spinner struct {
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// startSpinner begins an indeterminate spinner on stderr. On a non-terminal
// (or in debug mode, where output would interleave) it prints the
// description once instead and the returned Stop is a no-op.
func startSpinner(desc string) *spinner {
	s := &spinner{done: make(chan struct{})}

	if Debug || !term.IsTerminal(int(os.Stderr.Fd())) {
		step("%s", desc)
		close(s.done)
		return s
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				bar.Finish()
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()
	return s
}

func (s *spinner) Stop() {
	s.once.Do(func() {
		select {
		case <-s.done:
		default:
			close(s.done)
		}
		s.wg.Wait()
	})
}
