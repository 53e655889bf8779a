// bundlectl inspects and manages relocatable application bundles from
// the command line: resolving what the entrypoint would launch, listing
// and verifying binaries, staging new ones and running the bundle
// directly.
package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coolshou/mission-center/pkg/bundle"
)

var appDir string
var verbose bool

func main() {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:   "bundlectl",
		Short: "Inspect and manage application bundles",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&appDir, "appdir", "a", "", "[Optional] Bundle root directory, default $APPDIR")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "[Optional] Enable debug logging")
	rootCmd.Flags().SortFlags = false

	rootCmd.AddCommand(resolveCommand())
	rootCmd.AddCommand(listCommand())
	rootCmd.AddCommand(verifyCommand())
	rootCmd.AddCommand(stageCommand())
	rootCmd.AddCommand(runCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// getBundle resolves the bundle root from the --appdir flag or the
// environment.
func getBundle() *bundle.Bundle {
	if appDir != "" {
		b, err := bundle.New(appDir)
		if err != nil {
			log.Fatalf("Failed to open bundle: %v", err)
		}
		return b
	}
	b, err := bundle.FromEnv()
	if err != nil {
		log.Fatalf("Failed to locate bundle: %v", err)
	}
	return b
}
