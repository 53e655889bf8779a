//go:build !linux
// +build !linux

package spawn

// armParentDeath is a no-op where PR_SET_PDEATHSIG does not exist.
func armParentDeath() {}
