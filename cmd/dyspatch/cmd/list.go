package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/mfulz/dyspatch/interfaces"
	"github.com/mfulz/dyspatch/internal/config"
	"github.com/mfulz/dyspatch/internal/configloader"
	"github.com/mfulz/dyspatch/internal/logging"
	"github.com/spf13/cobra"
)

// ListCmd lists the keys of the routes file.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured routes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadRoutes(configloader.MustGetConfig[*config.Config]())
		if err != nil {
			return err
		}

		if len(f.Routes) == 0 {
			logging.Log.Warnln("No routes configured.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, key := range f.Keys() {
			r := f.Routes[key]
			fmt.Fprintf(w, "%s\t%s\t%s\n", key, r.Action, r.Description)
		}
		return w.Flush()
	},
}

// BackendsCmd lists the action kinds routes may use.
var BackendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List available action backends",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, kind := range interfaces.Backends() {
			fmt.Fprintln(cmd.OutOrStdout(), kind)
		}
	},
}
