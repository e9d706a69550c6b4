// Package cli implements the CLI adapter for gateway-core.
// This package provides Cobra commands that delegate to the app layer.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/gateway-core/internal/app"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// runGateway is replaced in tests.
var runGateway = app.Run

// NewRootCmd creates the root command for the gateway-core CLI.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "gateway-core",
		Short: "gateway-core - converge local containers on the component registry",
		Long: `gateway-core fetches the services assigned to this gateway from the
component registry and makes sure a container exists and runs for each of them
on the local Docker engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(newStartCmd(&configPath))
	rootCmd.AddCommand(newListCmd(&configPath))
	rootCmd.AddCommand(newStopCmd(&configPath))
	rootCmd.AddCommand(newRemoveCmd(&configPath))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newStartCmd creates the start command.
func newStartCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run one gateway convergence pass",
		Long: `Ensure the gateway network exists, wait for the component registry,
create the missing service containers and start the stopped ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runGateway(ctx, *configPath)
		},
	}
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("gateway-core %s\n", Version)
			cmd.Printf("Commit: %s\n", Commit)
			cmd.Printf("Build Date: %s\n", BuildDate)
		},
	}
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(version, commit, date string) {
	if version != "" {
		Version = version
	}
	if commit != "" {
		Commit = commit
	}
	if date != "" {
		BuildDate = date
	}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		rootCmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
