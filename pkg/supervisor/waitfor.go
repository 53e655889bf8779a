package supervisor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/coolshou/mission-center/pkg/bundle"
)

// watchPoll is the safety-net poll interval while waiting for a binary
// to appear; watch events normally get there first.
const watchPoll = 200 * time.Millisecond

// waitForExecutable blocks until the daemon binary exists and is
// executable. Bundles mount asynchronously, so the spec may allow a
// grace period; the watch covers the common case and the poll covers a
// bin directory that does not exist yet.
func (s *Supervisor) waitForExecutable(ctx context.Context, target string) error {
	err := bundle.Executable(target)
	if err == nil {
		return nil
	}
	if s.Spec.WaitForSeconds <= 0 {
		return errors.Wrapf(err, "daemon %s", s.Spec.Name)
	}
	timeout := time.Duration(s.Spec.WaitForSeconds) * time.Second

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer watcher.Close()

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err == nil {
		events = watcher.Events
		watchErrs = watcher.Errors
	} else {
		log.Debugf("cannot watch %s yet, polling instead: %v", dir, err)
	}

	// the binary may have appeared while the watch was being set up
	if bundle.Executable(target) == nil {
		return nil
	}

	deadline := s.Clock.Timer(timeout)
	defer deadline.Stop()
	poll := s.Clock.Ticker(watchPoll)
	defer poll.Stop()
	for {
		select {
		case event := <-events:
			if event.Name == target && bundle.Executable(target) == nil {
				return nil
			}
		case <-poll.C:
			if bundle.Executable(target) == nil {
				return nil
			}
		case err := <-watchErrs:
			return errors.Wrap(err, "failed to watch bundle")
		case <-deadline.C:
			return errors.Errorf("daemon %s did not appear within %s", s.Spec.Name, timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
