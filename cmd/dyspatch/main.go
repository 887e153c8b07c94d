// Command dyspatch dispatches keys to the actions configured in a routes file.
// Each route names an action backend (e.g. exec, echo) that builds the
// handler invoked when the key is dispatched.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mfulz/dyspatch/cmd/dyspatch/cmd"
	_ "github.com/mfulz/dyspatch/internal/actions"
	"github.com/mfulz/dyspatch/internal/config"
	"github.com/mfulz/dyspatch/internal/configloader"
	"github.com/mfulz/dyspatch/internal/logging"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:          "dyspatch",
	Short:        "Dispatch keys to configured actions",
	Long:         `dyspatch looks up a key in its routes file and runs the action linked to it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		if _, err := config.LoadConfig(configPath); err != nil {
			return err
		}
		if logLevel == "" {
			return nil
		}
		configloader.MustGetConfig[*logging.Config]().Level = logLevel
		return logging.Init()
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = logging.Log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $DYSPATCH_CONFIG, ~/.dyspatch/dyspatch/config.yaml, /etc/dyspatch/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&cmd.RoutesPath, "routes", "r", "", "Routes file (default: routes_file from config, then ~/.dyspatch/dyspatch/routes.yaml, /etc/dyspatch/routes.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(cmd.RunCmd)
	rootCmd.AddCommand(cmd.ListCmd)
	rootCmd.AddCommand(cmd.BackendsCmd)
}
