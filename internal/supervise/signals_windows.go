//go:build windows

package supervise

import (
	"os"
	"syscall"
)

// forwardedSignals lists the termination signals relayed to the child.
// Windows only delivers interrupt.
func forwardedSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// termSignal reports the signal that terminated the child. Windows has
// no signal-death notion in exit status.
func termSignal(state *os.ProcessState) (syscall.Signal, bool) {
	return 0, false
}

func reraise(sig syscall.Signal) {}
