// Package supervise runs the resolved terraform binary as a child
// process that, for the caller, is indistinguishable from running the
// tool directly: standard streams and environment are inherited,
// termination signals are forwarded, and the exit status is mirrored.
package supervise

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
)

// SpawnError reports that the child process could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Run spawns path with the given argument vector and blocks until the
// child exits. Signals received while the child runs are forwarded
// verbatim; the supervisor itself keeps waiting for the child's
// reaction. If the child died from a signal, Run re-raises that signal
// against the current process so its own exit status reflects signal
// termination; in that case the returned code is only reached when the
// re-raise did not terminate us. A normal child exit returns the
// child's exact code, defaulting to 1 when the code is indeterminate.
func Run(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	// Signals flow through a channel into this single loop; nothing
	// else touches the child handle.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, forwardedSignals()...)
	defer signal.Stop(sigs)

	if err := cmd.Start(); err != nil {
		return 0, &SpawnError{Path: path, Err: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	for {
		select {
		case sig := <-sigs:
			_ = cmd.Process.Signal(sig)
		case err := <-done:
			return exitStatus(cmd, err)
		}
	}
}

// exitStatus translates the child's wait outcome into the supervisor's
// own exit code, re-raising a terminating signal first.
func exitStatus(cmd *exec.Cmd, err error) (int, error) {
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return 1, fmt.Errorf("wait for child: %w", err)
	}

	state := cmd.ProcessState
	if sig, ok := termSignal(state); ok {
		reraise(sig)
		// Still alive: mirror the shell convention for signal death.
		return 128 + int(sig), nil
	}

	code := state.ExitCode()
	if code < 0 {
		code = 1
	}
	return code, nil
}
