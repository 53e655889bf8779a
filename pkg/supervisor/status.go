package supervisor

import "sync"

// DaemonStatus represents the status of a supervised daemon
type DaemonStatus int

func (ds DaemonStatus) String() string {
	switch ds {
	case StatusCreated:
		return "CREATED"
	case StatusRunning:
		return "RUNNING"
	case StatusRestarting:
		return "RESTARTING"
	case StatusStopped:
		return "STOPPED"
	case StatusFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

const (
	// StatusCreated denotes a freshly loaded daemon that's not started yet
	StatusCreated DaemonStatus = iota - 1
	// StatusRunning denotes a daemon whose process is alive
	StatusRunning
	// StatusRestarting denotes a daemon between a failure and its next start
	StatusRestarting
	// StatusStopped denotes a daemon stopped by the caller
	StatusStopped
	// StatusFailed denotes a daemon that exhausted its restart budget
	StatusFailed
)

// safeStatus provides a safer way to use DaemonStatus protecting it with a lock
type safeStatus struct {
	status DaemonStatus
	sync.RWMutex
}

// Set sets the daemon status to the given value
func (s *safeStatus) Set(status DaemonStatus) {
	s.Lock()
	defer s.Unlock()
	s.status = status
}

// Get returns the current daemon status
func (s *safeStatus) Get() DaemonStatus {
	s.RLock()
	defer s.RUnlock()
	return s.status
}
