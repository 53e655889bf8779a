// Package bundle resolves executables inside a relocatable application
// bundle laid out as <root>/usr/bin/<name>.
package bundle

import (
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// RootEnv is the environment variable holding the bundle root
	// directory. The AppImage runtime exports it before the entrypoint
	// runs.
	RootEnv = "APPDIR"

	// PreferredEnv is the environment variable naming which binary under
	// usr/bin the caller wants launched. It is optional.
	PreferredEnv = "ARGV0"

	// DefaultProgram is the compiled-in fallback binary name used when no
	// preferred name is supplied or the preferred binary is unusable.
	DefaultProgram = "missioncenter"

	// binDir is the fixed directory under the bundle root where
	// launchable binaries live.
	binDir = "usr/bin"
)

// ErrNoRoot means the required bundle root context is missing. Nothing
// can be resolved without it.
var ErrNoRoot = errors.Errorf("%s environment variable not set", RootEnv)

// Bundle is a relocatable application bundle rooted at a single
// directory.
type Bundle struct {
	Root string
}

// New returns a Bundle rooted at root. The root is not required to
// exist yet; resolution reports that later.
func New(root string) (*Bundle, error) {
	if root == "" {
		return nil, ErrNoRoot
	}
	return &Bundle{Root: root}, nil
}

// FromEnv builds a Bundle from the process environment. It touches no
// files, so a missing root fails before any filesystem access.
func FromEnv() (*Bundle, error) {
	return New(os.Getenv(RootEnv))
}

// Preferred returns the preferred program name from the environment, or
// "" when the caller supplied none.
func Preferred() string {
	return os.Getenv(PreferredEnv)
}

// Program returns the path of the named binary inside the bundle.
func (b *Bundle) Program(name string) string {
	return filepath.Join(b.Root, binDir, name)
}

// Resolve picks the binary to launch. The preferred name is tried
// first; any failure of the combined existence and executability test
// falls back to DefaultProgram silently. The returned path is not
// guaranteed to be runnable: when the fallback is unusable too, the
// exec attempt downstream reports it.
func (b *Bundle) Resolve(preferred string) string {
	name := preferred
	if name == "" {
		name = DefaultProgram
	}
	target := b.Program(name)
	if err := Executable(target); err != nil {
		log.Debugf("falling back to %s: %v", DefaultProgram, err)
		target = b.Program(DefaultProgram)
	}
	return target
}

// Programs lists the launchable binaries in the bundle, sorted by name.
func (b *Bundle) Programs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(b.Root, binDir))
	if err != nil {
		return nil, errors.Wrap(err, "list bundle binaries")
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if Executable(b.Program(entry.Name())) != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Stage copies a built binary or directory tree into the bundle under
// usr/bin/<name>, creating the layout if needed. Permissions are
// preserved, so a staged binary keeps its execute bit.
func (b *Bundle) Stage(src, name string) error {
	if name == "" {
		name = filepath.Base(src)
	}
	if err := os.MkdirAll(filepath.Join(b.Root, binDir), 0755); err != nil {
		return errors.Wrap(err, "create bundle layout")
	}
	if err := cp.Copy(src, b.Program(name)); err != nil {
		return errors.Wrapf(err, "stage %s", name)
	}
	return nil
}
