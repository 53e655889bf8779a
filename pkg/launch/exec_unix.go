//go:build !windows
// +build !windows

package launch

import (
	"syscall"

	"github.com/pkg/errors"
)

// Exec replaces the current process image with argv0. It does not
// return on success; the error covers both a failed call and the
// impossible case of the call returning without one.
func Exec(argv0 string, argv []string, envv []string) error {
	if err := syscall.Exec(argv0, argv, envv); err != nil {
		return errors.Wrapf(err, "exec %s", argv0)
	}
	return errors.Errorf("unexpected return from exec %s", argv0)
}
