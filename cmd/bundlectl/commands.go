package main

import (
	"github.com/spf13/cobra"
)

// resolveCommand returns the cobra command for resolving the launch
// target
func resolveCommand() *cobra.Command {
	var name string
	resolveCmd := &cobra.Command{
		Use:     "resolve",
		Short:   "Print the binary the entrypoint would launch",
		Example: "bundlectl --appdir /opt/App resolve --name myapp",
		Run:     resolveHandler(&name),
	}
	resolveCmd.Flags().StringVarP(&name, "name", "n", "", "[Optional] Preferred program name, default $ARGV0")
	resolveCmd.Flags().SortFlags = false

	return resolveCmd
}

// listCommand returns the cobra command for listing bundle binaries
func listCommand() *cobra.Command {
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List the launchable binaries in the bundle",
		Example: "bundlectl --appdir /opt/App list",
		Run:     listHandler(),
	}

	return listCmd
}

// verifyCommand returns the cobra command for verifying bundle binaries
func verifyCommand() *cobra.Command {
	verifyCmd := &cobra.Command{
		Use:     "verify [name...]",
		Short:   "Check that bundle binaries exist and are executable",
		Example: "bundlectl --appdir /opt/App verify myapp helper",
		Run:     verifyHandler(),
		Args:    cobra.ArbitraryArgs,
	}

	return verifyCmd
}

// stageCommand returns the cobra command for staging a binary into the
// bundle
func stageCommand() *cobra.Command {
	var name string
	stageCmd := &cobra.Command{
		Use:     "stage <path>",
		Short:   "Copy a built binary into the bundle's usr/bin",
		Example: "bundlectl --appdir /opt/App stage ./build/myapp --name myapp",
		Run:     stageHandler(&name),
		Args:    cobra.ExactArgs(1),
	}
	stageCmd.Flags().StringVarP(&name, "name", "n", "", "[Optional] Name to stage under, default the source name")
	stageCmd.Flags().SortFlags = false

	return stageCmd
}

// runCommand returns the cobra command for running the bundle in place
func runCommand() *cobra.Command {
	var name string
	runCmd := &cobra.Command{
		Use:     "run [arg...]",
		Short:   "Resolve the launch target and replace this process with it",
		Example: "bundlectl --appdir /opt/App run -- --help",
		Run:     runHandler(&name),
		Args:    cobra.ArbitraryArgs,
	}
	runCmd.Flags().StringVarP(&name, "name", "n", "", "[Optional] Preferred program name, default $ARGV0")
	runCmd.Flags().SortFlags = false

	return runCmd
}
