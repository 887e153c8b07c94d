// Package cmd provides the subcommands of the dyspatch binary.
// This file defines the "run" subcommand dispatching a key.
package cmd

import (
	"context"
	"fmt"

	"github.com/mfulz/dyspatch/internal/config"
	"github.com/mfulz/dyspatch/internal/configloader"
	"github.com/mfulz/dyspatch/internal/logging"
	"github.com/mfulz/dyspatch/internal/routes"
	"github.com/spf13/cobra"
)

// RoutesPath is the routes file given on the command line. It is bound to the
// persistent --routes flag of the root command.
var RoutesPath string

// RunCmd dispatches a key to the action configured for it.
var RunCmd = &cobra.Command{
	Use:   "run <key> [args...]",
	Short: "Dispatch a key to its configured action",
	Long: `Looks up the key in the routes file and invokes its action with the remaining arguments.

Examples:
  dyspatch run hello world
  dyspatch run --routes ./routes.yaml backup -- --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configloader.MustGetConfig[*config.Config]()

		f, err := loadRoutes(cfg)
		if err != nil {
			return err
		}

		d, err := routes.NewDispatcher(f)
		if err != nil {
			return fmt.Errorf("failed to build dispatcher: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		key, rest := args[0], args[1:]
		// flag parsing stops at the key, so a separating "--" is still here
		if len(rest) > 0 && rest[0] == "--" {
			rest = rest[1:]
		}
		dispatchArgs := make([]any, 0, len(rest))
		for _, a := range rest {
			dispatchArgs = append(dispatchArgs, a)
		}

		res, err := d.Dispatch(ctx, key, dispatchArgs...)
		if err != nil {
			return err
		}
		logging.Log.Debugf("[run] %s done", key)

		if res != nil {
			fmt.Fprintln(cmd.OutOrStdout(), res)
		}
		return nil
	},
}

func init() {
	RunCmd.Flags().SetInterspersed(false)
}

// loadRoutes reads the routes file selected by flag, config or lookup.
func loadRoutes(cfg *config.Config) (*routes.File, error) {
	explicit := RoutesPath
	if explicit == "" {
		explicit = cfg.RoutesFile
	}

	path, err := routes.ResolvePath(explicit)
	if err != nil {
		return nil, err
	}
	return routes.LoadFile(path)
}
