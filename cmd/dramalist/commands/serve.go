package commands

import (
	"time"

	"dramalist-backend/cmd/dramalist/globals"
	"dramalist-backend/internal/api"
	libtelemetry "dramalist-backend/lib/telemetry"
	"dramalist-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the REST api on the configured port (PORT overrides it).",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		libtelemetry.InstrumentPerfStats(cmd.Context())

		e := api.New(g.Service, g.Tel, api.Options{Version: version})
		return serviceutil.StartHttpServer(cmd.Context(), e, g.Config.Server.Port, 10*time.Second)
	},
}
