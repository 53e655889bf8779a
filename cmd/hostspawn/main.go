// hostspawn forwards its arguments through flatpak-spawn so a
// sandboxed process can run a payload on the host session. It follows
// the entrypoint shim's pass-through contract: no flags of its own,
// the child's exit code becomes its own.
package main

import (
	"fmt"
	"os"

	"github.com/coolshou/mission-center/pkg/spawn"
)

const flatpakSpawn = "/usr/bin/flatpak-spawn"

func main() {
	argv := append([]string{flatpakSpawn, "--watch-bus", "--host"}, os.Args[1:]...)
	code, err := spawn.Run(argv, os.Environ())
	if err != nil {
		fmt.Fprintf(os.Stderr, "hostspawn: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}
