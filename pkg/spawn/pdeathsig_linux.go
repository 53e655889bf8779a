//go:build linux
// +build linux

package spawn

import "golang.org/x/sys/unix"

// armParentDeath asks the kernel to send SIGUSR1 when the parent dies,
// which the signal handling in Run turns into a child kill. Without it
// a vanished session would orphan the payload.
func armParentDeath() {
	_ = unix.Prctl(unix.PR_SET_PDEATHSIG, uintptr(unix.SIGUSR1), 0, 0, 0)
}
