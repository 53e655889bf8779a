//go:build !windows
// +build !windows

package bundle

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Executable runs the combined existence and executability test for
// path. Every failure mode (missing file, missing execute bit, denied
// parent directory) collapses into a single error.
func Executable(path string) error {
	if err := unix.Access(path, unix.X_OK); err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}
