//go:build windows
// +build windows

package bundle

import (
	"os"

	"github.com/pkg/errors"
)

// Executable runs the existence test for path. Windows has no execute
// bit, so any regular file passes.
func Executable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, path)
	}
	if info.IsDir() {
		return errors.Errorf("%s: is a directory", path)
	}
	return nil
}
