package portapps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// Runner abstracts external subprogram execution so the orchestration logic
// can be exercised in tests without wine on the machine.
type Runner interface {
	// RunLogged executes a command with stdout/stderr redirected to logPath,
	// showing a spinner while the command blocks. Extra env entries are
	// appended to the inherited environment.
	RunLogged(desc, logPath string, env []string, name string, arg ...string) error
	// Output runs a command and returns its combined output.
	Output(name string, arg ...string) (string, error)
}

// Exec is the real Runner. Commands run in their own process group so a
// context cancellation (Ctrl+C) can kill the whole tree.
type Exec struct {
	Context context.Context
}

func NewExec(ctx context.Context) *Exec {
	return &Exec{Context: ctx}
}

func (e *Exec) RunLogged(desc, logPath string, env []string, name string, arg ...string) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	defer logFile.Close()

	fmt.Fprintf(logFile, "# %s %s\n", name, strings.Join(arg, " "))

	cmd := exec.CommandContext(e.Context, name, arg...)
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Env = append(os.Environ(), env...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	sp := startSpinner(desc)
	defer sp.Stop()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	// Kill the whole process group on cancellation, not just the child.
	pgid := cmd.Process.Pid
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-e.Context.Done():
			syscall.Kill(-pgid, syscall.SIGKILL)
		case <-done:
		}
	}()

	if waitErr := cmd.Wait(); waitErr != nil {
		if e.Context.Err() != nil {
			time.Sleep(100 * time.Millisecond)
			return fmt.Errorf("command aborted: %v", e.Context.Err())
		}
		return fmt.Errorf("%s failed: %w (see %s)", name, waitErr, logPath)
	}
	return nil
}

func (e *Exec) Output(name string, arg ...string) (string, error) {
	cmd := exec.CommandContext(e.Context, name, arg...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// CheckTools verifies every required external binary is on PATH before any
// mutation happens.
func CheckTools(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, err := exec.LookPath(n); err != nil {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found in PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}

// HaveTool reports whether an optional helper is available.
func HaveTool(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
