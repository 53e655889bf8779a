package supervisor

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Spec is the top-level supervise document: every companion daemon the
// bundle wants kept alive.
type Spec struct {
	Daemons []DaemonSpec `json:"daemons" yaml:"daemons"`
}

// DaemonSpec describes one companion daemon resolved inside the bundle.
type DaemonSpec struct {
	// Name is the binary name under the bundle's usr/bin.
	Name string `json:"name" yaml:"name"`
	// Args are passed to the daemon after the resolved path.
	Args []string `json:"args" yaml:"args"`
	// Env entries (KEY=VALUE) are appended to the inherited environment.
	Env []string `json:"env" yaml:"env"`

	// WaitForSeconds bounds how long to wait for the binary to appear
	// before the first start; bundles mount asynchronously. Zero means
	// the binary must already be there.
	WaitForSeconds int `json:"waitForSeconds" yaml:"waitForSeconds"`

	Restart RestartSpec `json:"restart" yaml:"restart"`
	Health  *HealthSpec `json:"health" yaml:"health"`
}

// RestartSpec bounds how hard the supervisor tries to keep the daemon
// alive.
type RestartSpec struct {
	// MaxRestarts is the number of restarts allowed after the first
	// start.
	MaxRestarts int `json:"maxRestarts" yaml:"maxRestarts"`
	// BackoffSeconds is the delay before the first restart. It doubles
	// after every consecutive failure.
	BackoffSeconds int `json:"backoffSeconds" yaml:"backoffSeconds"`
}

// HealthSpec describes the periodic liveness check. A daemon that fails
// FailureThreshold consecutive checks is killed and restarted.
type HealthSpec struct {
	HTTPGet *HTTPGetSpec `json:"httpGet" yaml:"httpGet"`

	InitialDelaySeconds int `json:"initialDelaySeconds" yaml:"initialDelaySeconds"`
	PeriodSeconds       int `json:"periodSeconds" yaml:"periodSeconds"`
	TimeoutSeconds      int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	FailureThreshold    int `json:"failureThreshold" yaml:"failureThreshold"`
}

// HTTPGetSpec points the liveness check at an HTTP endpoint the daemon
// serves.
type HTTPGetSpec struct {
	Host   string `json:"host" yaml:"host"`
	Path   string `json:"path" yaml:"path"`
	Port   int    `json:"port" yaml:"port"`
	Scheme string `json:"scheme" yaml:"scheme"`
}

// Load reads a supervise spec from path. JSON and YAML files are both
// accepted.
func Load(path string) (*Spec, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read spec %s", path)
	}
	spec := &Spec{}
	if err := unmarshal(contents, spec); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// unmarshal tries the spec contents as JSON first and YAML second.
func unmarshal(contents []byte, spec *Spec) error {
	jsonErr := json.Unmarshal(contents, spec)
	if jsonErr == nil {
		return nil
	}
	yamlErr := yaml.Unmarshal(contents, spec)
	if yamlErr == nil {
		return nil
	}
	return errors.Errorf("failed to unmarshal spec contents: %v (json) | %v (yaml)", jsonErr, yamlErr)
}

// validate rejects specs the supervisor cannot act on.
func (s *Spec) validate() error {
	if len(s.Daemons) == 0 {
		return errors.New("spec has no daemons")
	}
	seen := map[string]bool{}
	for _, d := range s.Daemons {
		if d.Name == "" {
			return errors.New("spec has a daemon with no name")
		}
		if seen[d.Name] {
			return errors.Errorf("spec has duplicate daemon %s", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

func (r RestartSpec) backoff() time.Duration {
	return seconds(r.BackoffSeconds, 1)
}

func (h *HealthSpec) initialDelay() time.Duration {
	return seconds(h.InitialDelaySeconds, 1)
}

func (h *HealthSpec) period() time.Duration {
	return seconds(h.PeriodSeconds, 5)
}

func (h *HealthSpec) timeout() time.Duration {
	return seconds(h.TimeoutSeconds, 1)
}

func (h *HealthSpec) threshold() int {
	if h.FailureThreshold <= 0 {
		return 3
	}
	return h.FailureThreshold
}

func (g *HTTPGetSpec) url() string {
	scheme := g.Scheme
	if scheme == "" {
		scheme = "http"
	}
	host := g.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, host, g.Port, g.Path)
}

// seconds returns n seconds, or def seconds when n is unset.
func seconds(n, def int) time.Duration {
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}
