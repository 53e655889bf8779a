package main

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coolshou/mission-center/pkg/bundle"
	"github.com/coolshou/mission-center/pkg/launch"
)

// resolveHandler handles the resolve command
func resolveHandler(name *string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		b := getBundle()
		preferred := *name
		if preferred == "" {
			preferred = bundle.Preferred()
		}
		fmt.Println(b.Resolve(preferred))
	}
}

// listHandler handles the list command
func listHandler() func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		b := getBundle()
		programs, err := b.Programs()
		if err != nil {
			log.Fatalf("Failed to list bundle binaries: %v", err)
		}
		for _, name := range programs {
			fmt.Println(name)
		}
	}
}

// verifyHandler handles the verify command
func verifyHandler() func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		b := getBundle()
		if len(args) == 0 {
			args = []string{bundle.DefaultProgram}
		}
		failed := false
		for _, name := range args {
			if err := bundle.Executable(b.Program(name)); err != nil {
				fmt.Printf("%s: %v\n", name, err)
				failed = true
				continue
			}
			fmt.Printf("%s: ok\n", name)
		}
		if failed {
			os.Exit(1)
		}
	}
}

// stageHandler handles the stage command
func stageHandler(name *string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		b := getBundle()
		if err := b.Stage(args[0], *name); err != nil {
			log.Fatalf("Failed to stage %s: %v", args[0], err)
		}
		staged := *name
		if staged == "" {
			staged = filepath.Base(args[0])
		}
		log.Debugf("staged %s into %s", staged, b.Root)
	}
}

// runHandler handles the run command
func runHandler(name *string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		b := getBundle()
		preferred := *name
		if preferred == "" {
			preferred = bundle.Preferred()
		}
		target := b.Resolve(preferred)
		argv := append([]string{target}, args...)
		if err := launch.Exec(target, argv, os.Environ()); err != nil {
			log.Fatalf("Failed to run %s: %v", target, err)
		}
	}
}
