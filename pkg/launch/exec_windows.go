//go:build windows
// +build windows

package launch

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// Exec approximates a process-image replace on Windows, which has no
// execve. The target runs as a child with inherited stdio and this
// process leaves with the child's exit code, so arguments and exit
// codes behave like the unix build even though the process tree
// differs.
func Exec(argv0 string, argv []string, envv []string) error {
	cmd := exec.Command(argv0, argv[1:]...)
	cmd.Env = envv
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return errors.Wrapf(err, "exec %s", argv0)
	}
	os.Exit(0)
	return nil // unreachable
}
