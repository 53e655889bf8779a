// The entrypoint shim is the first process of the application bundle.
// It reads the bundle root and the preferred program from the
// environment, resolves the binary under usr/bin and replaces itself
// with it, forwarding arguments and environment untouched.
package main

import (
	"fmt"
	"os"

	"github.com/coolshou/mission-center/pkg/bundle"
	"github.com/coolshou/mission-center/pkg/launch"
)

func main() {
	b, err := bundle.FromEnv()
	if err != nil {
		die(err)
	}
	target := b.Resolve(bundle.Preferred())
	die(launch.Exec(target, launch.Argv(target, os.Args), os.Environ()))
}

// die reports err on stderr and leaves with status 1. A successful
// exec never gets here.
func die(err error) {
	fmt.Fprintf(os.Stderr, "entrypoint: %v\n", err)
	os.Exit(1)
}
