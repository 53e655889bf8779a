//go:build windows
// +build windows

package spawn

import (
	"os"
	"syscall"
)

// termSignals are the signals that tear down the child instead of the
// forwarder.
var termSignals = []os.Signal{syscall.SIGTERM, syscall.SIGINT}
