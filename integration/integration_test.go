//go:build !windows
// +build !windows

package integration

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	entrypointBin string
	bundlectlBin  string
	superviseBin  string
)

// TestMain builds the binaries once for the whole suite.
func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "mission-center-bin")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	entrypointBin = filepath.Join(dir, "entrypoint")
	bundlectlBin = filepath.Join(dir, "bundlectl")
	superviseBin = filepath.Join(dir, "supervise")

	builds := map[string]string{
		"../cmd/entrypoint": entrypointBin,
		"../cmd/bundlectl":  bundlectlBin,
		"../cmd/supervise":  superviseBin,
	}
	for pkg, bin := range builds {
		cmd := exec.Command("go", "build", "-o", bin, pkg)
		if output, err := cmd.CombinedOutput(); err != nil {
			fmt.Printf("Failed to build %s: %v\n%s", pkg, err, output)
			os.Exit(1)
		}
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// writeProgram installs a shell program into the bundle that announces
// its identity, its argv[0] and every argument it received.
func writeProgram(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, "usr", "bin")
	require.NoError(t, os.MkdirAll(dir, 0755))
	script := fmt.Sprintf("#!/bin/sh\n"+
		"echo \"program: %s\"\n"+
		"echo \"argv0: $0\"\n"+
		"for arg in \"$@\"; do printf 'arg: [%%s]\\n' \"$arg\"; done\n", name)
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(script), 0755))
	return path
}

// writeScript installs an arbitrary shell script into the bundle.
func writeScript(t *testing.T, root, name, body string) string {
	t.Helper()
	dir := filepath.Join(root, "usr", "bin")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

// bundleEnv builds a process environment with full control over the
// bundle variables.
func bundleEnv(vars map[string]string) []string {
	env := []string{}
	for _, entry := range os.Environ() {
		if strings.HasPrefix(entry, "APPDIR=") || strings.HasPrefix(entry, "ARGV0=") {
			continue
		}
		env = append(env, entry)
	}
	for key, value := range vars {
		env = append(env, key+"="+value)
	}
	return env
}

// run executes a binary with the given bundle environment and returns
// stdout, stderr and the exit code separately.
func run(bin string, env map[string]string, args ...string) (string, string, int) {
	cmd := exec.Command(bin, args...)
	cmd.Env = bundleEnv(env)
	fmt.Printf("Running command: %s\n", cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), exitCode(err)
}

// exitCode maps a Run error onto the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

func TestLaunchResolution(t *testing.T) {
	testCases := []struct {
		desc      string
		preferred string   // ARGV0 value, "" means unset
		programs  []string // programs installed in the bundle
		want      string   // program expected to announce itself
	}{
		{
			desc:      "preferred program launched",
			preferred: "myapp",
			programs:  []string{"missioncenter", "myapp"},
			want:      "myapp",
		},
		{
			desc:     "default program when nothing preferred",
			programs: []string{"missioncenter", "myapp"},
			want:     "missioncenter",
		},
		{
			desc:      "fallback when preferred is missing",
			preferred: "ghost",
			programs:  []string{"missioncenter"},
			want:      "missioncenter",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			root := t.TempDir()
			for _, name := range tc.programs {
				writeProgram(t, root, name)
			}
			env := map[string]string{"APPDIR": root}
			if tc.preferred != "" {
				env["ARGV0"] = tc.preferred
			}

			stdout, stderr, code := run(entrypointBin, env)
			assert.Equal(t, 0, code, "stderr: %s", stderr)
			assert.Contains(t, stdout, "program: "+tc.want+"\n")
			assert.Contains(t, stdout, "argv0: "+filepath.Join(root, "usr", "bin", tc.want)+"\n")
		})
	}
}

func TestLaunchFallbackNonExecutable(t *testing.T) {
	root := t.TempDir()
	writeProgram(t, root, "missioncenter")
	plain := writeProgram(t, root, "myapp")
	require.NoError(t, os.Chmod(plain, 0644))

	stdout, stderr, code := run(entrypointBin, map[string]string{"APPDIR": root, "ARGV0": "myapp"})
	assert.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "program: missioncenter\n")
}

func TestArgumentForwarding(t *testing.T) {
	root := t.TempDir()
	target := writeProgram(t, root, "myapp")

	args := []string{"--flag", "two words", "", "-x", "ünïcode"}
	stdout, stderr, code := run(entrypointBin, map[string]string{"APPDIR": root, "ARGV0": "myapp"}, args...)

	want := "program: myapp\n" +
		"argv0: " + target + "\n" +
		"arg: [--flag]\n" +
		"arg: [two words]\n" +
		"arg: []\n" +
		"arg: [-x]\n" +
		"arg: [ünïcode]\n"
	assert.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, want, stdout)
}

func TestMissingBundleRoot(t *testing.T) {
	testCases := []struct {
		desc string
		env  map[string]string
	}{
		{
			desc: "root unset",
			env:  map[string]string{},
		},
		{
			desc: "root empty",
			env:  map[string]string{"APPDIR": ""},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			stdout, stderr, code := run(entrypointBin, tc.env, "--some-arg")
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "APPDIR")
		})
	}
}

func TestLaunchFailureDiagnostic(t *testing.T) {
	// bundle with no binaries at all: resolution falls back to the
	// default path and the exec attempt is what reports it
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "usr", "bin"), 0755))

	stdout, stderr, code := run(entrypointBin, map[string]string{"APPDIR": root})
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, filepath.Join("usr", "bin", "missioncenter"))
}

func TestExitCodePropagation(t *testing.T) {
	testCases := []struct {
		desc string
		body string
		code int
	}{
		{
			desc: "success",
			body: "exit 0\n",
			code: 0,
		},
		{
			desc: "small failure",
			body: "exit 3\n",
			code: 3,
		},
		{
			desc: "large failure",
			body: "exit 42\n",
			code: 42,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			root := t.TempDir()
			writeScript(t, root, "missioncenter", tc.body)

			_, stderr, code := run(entrypointBin, map[string]string{"APPDIR": root})
			assert.Equal(t, tc.code, code, "stderr: %s", stderr)
		})
	}
}

func TestEnvironmentForwarded(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "missioncenter", "echo \"greeting: $GREETING\"\n")

	stdout, stderr, code := run(entrypointBin, map[string]string{"APPDIR": root, "GREETING": "hello"})
	assert.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, "greeting: hello\n", stdout)
}

func TestBundlectlResolve(t *testing.T) {
	root := t.TempDir()
	writeProgram(t, root, "missioncenter")
	writeProgram(t, root, "myapp")

	stdout, stderr, code := run(bundlectlBin, nil, "--appdir", root, "resolve", "--name", "myapp")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, filepath.Join(root, "usr", "bin", "myapp")+"\n", stdout)

	// the environment works the same way the entrypoint sees it
	stdout, stderr, code = run(bundlectlBin, map[string]string{"APPDIR": root, "ARGV0": "myapp"}, "resolve")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, filepath.Join(root, "usr", "bin", "myapp")+"\n", stdout)
}

func TestBundlectlListVerifyStage(t *testing.T) {
	root := t.TempDir()
	writeProgram(t, root, "missioncenter")
	writeProgram(t, root, "myapp")

	stdout, stderr, code := run(bundlectlBin, nil, "--appdir", root, "list")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, "missioncenter\nmyapp\n", stdout)

	_, _, code = run(bundlectlBin, nil, "--appdir", root, "verify", "missioncenter", "myapp")
	assert.Equal(t, 0, code)

	stdout, _, code = run(bundlectlBin, nil, "--appdir", root, "verify", "ghost")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "ghost")

	// stage a new binary and watch it become launchable
	src := filepath.Join(t.TempDir(), "helper")
	require.NoError(t, ioutil.WriteFile(src, []byte("#!/bin/sh\nexit 0\n"), 0755))

	_, stderr, code = run(bundlectlBin, nil, "--appdir", root, "stage", src)
	require.Equal(t, 0, code, "stderr: %s", stderr)

	stdout, _, code = run(bundlectlBin, nil, "--appdir", root, "list")
	require.Equal(t, 0, code)
	assert.Equal(t, "helper\nmissioncenter\nmyapp\n", stdout)

	_, _, code = run(bundlectlBin, nil, "--appdir", root, "verify", "helper")
	assert.Equal(t, 0, code)
}

func TestBundlectlRun(t *testing.T) {
	root := t.TempDir()
	writeProgram(t, root, "missioncenter")
	writeProgram(t, root, "myapp")

	stdout, stderr, code := run(bundlectlBin, nil, "--appdir", root, "run", "--name", "myapp", "--", "--flag", "value")
	assert.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "program: myapp\n")
	assert.Contains(t, stdout, "arg: [--flag]\n")
	assert.Contains(t, stdout, "arg: [value]\n")
}

func TestSuperviseGivesUp(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "crasher", "exit 1\n")
	specFile := filepath.Join(t.TempDir(), "daemons.yaml")
	spec := "daemons:\n" +
		"  - name: crasher\n" +
		"    restart:\n" +
		"      maxRestarts: 1\n" +
		"      backoffSeconds: 1\n"
	require.NoError(t, ioutil.WriteFile(specFile, []byte(spec), 0644))

	_, stderr, code := run(superviseBin, map[string]string{"APPDIR": root}, specFile)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "gave up after 1 restarts")
}

func TestSuperviseStopsOnSignal(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "steady", "sleep 30\n")
	specFile := filepath.Join(t.TempDir(), "daemons.yaml")
	require.NoError(t, ioutil.WriteFile(specFile, []byte("daemons:\n  - name: steady\n"), 0644))

	cmd := exec.Command(superviseBin, specFile)
	cmd.Env = bundleEnv(map[string]string{"APPDIR": root})
	fmt.Printf("Running command: %s\n", cmd)
	require.NoError(t, cmd.Start())

	time.Sleep(time.Second) // give the daemon some time
	require.NoError(t, cmd.Process.Signal(syscall.SIGTERM))

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("supervise did not stop on SIGTERM")
	}
}
