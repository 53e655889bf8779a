// Package supervisor keeps a bundle's companion daemons running. The
// entrypoint shim never retries anything; restarting a crashed helper
// within a budget is this package's job.
package supervisor

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/coolshou/mission-center/pkg/bundle"
)

// maxBackoff caps the doubling restart delay.
const maxBackoff = 30 * time.Second

// Supervisor keeps one companion daemon alive within its restart
// budget.
type Supervisor struct {
	Spec DaemonSpec

	// Clock is swappable for tests.
	Clock clock.Clock

	bundle *bundle.Bundle
	status safeStatus
	client *http.Client
}

// New returns a Supervisor for the daemon described by spec inside b.
func New(b *bundle.Bundle, spec DaemonSpec) *Supervisor {
	s := &Supervisor{
		Spec:   spec,
		Clock:  clock.New(),
		bundle: b,
		client: http.DefaultClient,
	}
	if spec.Health != nil {
		s.client = &http.Client{Timeout: spec.Health.timeout()}
	}
	s.status.Set(StatusCreated)
	return s
}

// Status reports the daemon's current lifecycle state.
func (s *Supervisor) Status() DaemonStatus {
	return s.status.Get()
}

// Run resolves the daemon binary and keeps it alive until ctx is
// canceled or the restart budget runs out. Daemons are expected to run
// forever, so any exit counts against the budget. Run blocks for the
// daemon's whole lifetime.
func (s *Supervisor) Run(ctx context.Context) error {
	target := s.bundle.Program(s.Spec.Name)
	if err := s.waitForExecutable(ctx, target); err != nil {
		s.status.Set(StatusFailed)
		return err
	}

	restarts := 0
	backoff := s.Spec.Restart.backoff()
	for {
		reason := s.runOnce(ctx, target)
		if ctx.Err() != nil {
			s.status.Set(StatusStopped)
			return nil
		}
		log.Warnf("daemon %s: %v", s.Spec.Name, reason)
		if restarts >= s.Spec.Restart.MaxRestarts {
			s.status.Set(StatusFailed)
			return errors.Wrapf(reason, "daemon %s gave up after %d restarts", s.Spec.Name, restarts)
		}
		restarts++
		s.status.Set(StatusRestarting)
		log.Infof("restarting daemon %s in %s (%d/%d)", s.Spec.Name, backoff, restarts, s.Spec.Restart.MaxRestarts)
		select {
		case <-s.Clock.After(backoff):
		case <-ctx.Done():
			s.status.Set(StatusStopped)
			return nil
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// runOnce starts the daemon and blocks until it exits or turns
// unhealthy. The returned reason feeds the restart decision; it is nil
// only when ctx ended the run.
func (s *Supervisor) runOnce(ctx context.Context, target string) error {
	cmd := exec.Command(target, s.Spec.Args...)
	cmd.Env = append(os.Environ(), s.Spec.Env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "failed to start %s", target)
	}
	s.status.Set(StatusRunning)
	log.Infof("daemon %s running, pid %d", s.Spec.Name, cmd.Process.Pid)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	checkCtx, stopChecks := context.WithCancel(ctx)
	defer stopChecks()
	var unhealthy <-chan error
	if s.Spec.Health != nil {
		unhealthy = s.healthLoop(checkCtx)
	}

	select {
	case err := <-done:
		if err != nil {
			return errors.Wrap(err, "exited")
		}
		return errors.New("exited with status 0")
	case err := <-unhealthy:
		_ = cmd.Process.Kill()
		<-done
		return err
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return nil
	}
}

// healthLoop runs the periodic liveness check and delivers one error
// once the consecutive-failure threshold is crossed.
func (s *Supervisor) healthLoop(ctx context.Context) <-chan error {
	h := s.Spec.Health
	out := make(chan error, 1)
	go func() {
		delay := s.Clock.Timer(h.initialDelay())
		defer delay.Stop()
		select {
		case <-delay.C:
		case <-ctx.Done():
			return
		}

		ticker := s.Clock.Ticker(h.period())
		defer ticker.Stop()
		failures := 0
		for {
			if err := s.check(); err != nil {
				failures++
				log.Debugf("daemon %s health check failed (%d/%d): %v", s.Spec.Name, failures, h.threshold(), err)
				if failures >= h.threshold() {
					out <- errors.Wrap(err, "unhealthy")
					return
				}
			} else {
				failures = 0
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// check runs a single liveness probe against the daemon.
func (s *Supervisor) check() error {
	g := s.Spec.Health.HTTPGet
	if g == nil {
		return nil
	}
	resp, err := s.client.Get(g.url())
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("bad status code %d", resp.StatusCode)
	}
	return nil
}
