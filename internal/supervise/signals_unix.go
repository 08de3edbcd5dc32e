//go:build !windows

package supervise

import (
	"os"
	"os/signal"
	"syscall"
)

// forwardedSignals lists the termination signals relayed to the child.
func forwardedSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}
}

// termSignal reports the signal that terminated the child, if any.
func termSignal(state *os.ProcessState) (syscall.Signal, bool) {
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return 0, false
	}
	return status.Signal(), true
}

// reraise restores the default disposition for sig and delivers it to
// the current process, so the supervisor dies the same way the child
// did instead of exiting with a plain code.
func reraise(sig syscall.Signal) {
	signal.Reset(sig)
	_ = syscall.Kill(os.Getpid(), sig)
}
