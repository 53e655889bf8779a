// Package spawn runs a forwarded command as a watched child process
// and hands its exit code back to the caller.
package spawn

import (
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Run starts argv as a child with inherited stdio and waits for it.
// The returned code is the child's exit code; a child killed by a
// signal maps to the shell convention of 128 plus the signal number.
// SIGUSR1, SIGTERM and SIGINT kill the child instead of the forwarder,
// so a dying session never leaves the payload behind; the forwarder
// then returns 0 the way the session expects.
func Run(argv []string, envv []string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("no command to spawn")
	}
	armParentDeath()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = envv
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	term := make(chan os.Signal, 1)
	signal.Notify(term, termSignals...)
	defer signal.Stop(term)

	if err := cmd.Start(); err != nil {
		return 0, errors.Wrapf(err, "start %s", argv[0])
	}
	log.Debugf("spawned %s, pid %d", argv[0], cmd.Process.Pid)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		return exitCode(err)
	case sig := <-term:
		log.Debugf("killing child on %v", sig)
		if err := cmd.Process.Kill(); err != nil {
			return 0, errors.Wrap(err, "kill child")
		}
		<-done
		return 0, nil
	}
}

// exitCode maps a Wait result onto the child's exit code.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return 0, errors.Wrap(err, "wait for child")
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal()), nil
	}
	return exitErr.ExitCode(), nil
}
