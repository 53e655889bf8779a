//go:build !windows
// +build !windows

package spawn

import (
	"os"
	"syscall"
)

// termSignals are the signals that tear down the child instead of the
// forwarder. SIGUSR1 is what the parent-death watch delivers.
var termSignals = []os.Signal{syscall.SIGUSR1, syscall.SIGTERM, syscall.SIGINT}
