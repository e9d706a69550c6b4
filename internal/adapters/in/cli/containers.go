package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/gateway-core/internal/adapters/in/cli/ui/components"
	"github.com/bnema/gateway-core/internal/app"
	"github.com/bnema/gateway-core/internal/domain"
)

// containerManager is the subset of app.Manager used by the container commands.
type containerManager interface {
	List(ctx context.Context) ([]domain.ContainerRecord, error)
	Stop(ctx context.Context, name string) error
	Remove(ctx context.Context, name string, purge bool) error
	Close()
}

// openManager is replaced in tests.
var openManager = func(ctx context.Context, configPath string) (context.Context, containerManager, error) {
	ctx, m, err := app.NewManager(ctx, configPath)
	if err != nil {
		return ctx, nil, err
	}
	return ctx, m, nil
}

// withManager opens a manager for the duration of fn.
func withManager(cmd *cobra.Command, configPath string, fn func(ctx context.Context, m containerManager) error) error {
	ctx, m, err := openManager(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(ctx, m)
}

func newListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List containers and their state",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, *configPath, func(ctx context.Context, m containerManager) error {
				records, err := m.List(ctx)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No containers found")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), components.ContainerTable(records))
				return nil
			})
		},
	}
}

func newStopCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop NAME",
		Short: "Stop a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, *configPath, func(ctx context.Context, m containerManager) error {
				if err := m.Stop(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stopped %s\n", args[0])
				return nil
			})
		},
	}
}

func newRemoveCmd(configPath *string) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove a container",
		Long:    `Remove a container. With --purge, every volume labeled with its name is removed too.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, *configPath, func(ctx context.Context, m containerManager) error {
				if err := m.Remove(ctx, args[0], purge); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Also remove the container's volumes")

	return cmd
}
