package supervisor

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/coolshou/mission-center/pkg/bundle"
)

// Manager runs every daemon in a spec, one supervisor each, the way a
// pod groups containers.
type Manager struct {
	supervisors map[string]*Supervisor
}

// NewManager builds one Supervisor per daemon in spec.
func NewManager(b *bundle.Bundle, spec *Spec) *Manager {
	m := &Manager{supervisors: map[string]*Supervisor{}}
	for _, d := range spec.Daemons {
		m.supervisors[d.Name] = New(b, d)
	}
	return m
}

// Statuses reports the lifecycle state of every supervised daemon.
func (m *Manager) Statuses() map[string]DaemonStatus {
	statuses := map[string]DaemonStatus{}
	for name, s := range m.supervisors {
		statuses[name] = s.Status()
	}
	return statuses
}

// Run supervises every daemon until ctx is canceled or every restart
// budget is exhausted. A failing daemon does not abort its siblings;
// failures are collected and reported together.
func (m *Manager) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, len(m.supervisors))
	i := 0
	for name, s := range m.supervisors {
		wg.Add(1)
		go func(i int, name string, s *Supervisor) {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				log.Errorf("daemon %s: %v", name, err)
				errs[i] = err
			}
		}(i, name, s)
		i++
	}
	wg.Wait()

	if failures := filterErrors(errs); len(failures) > 0 {
		return errors.Errorf("%d of %d daemons failed: %s", len(failures), len(m.supervisors), stringifyErrors(failures))
	}
	return nil
}
