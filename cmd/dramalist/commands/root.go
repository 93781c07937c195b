package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dramalist-backend/cmd/dramalist/globals"
	"dramalist-backend/internal/components/telemetry"
	"dramalist-backend/internal/config"
	libtelemetry "dramalist-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

const serviceName = "dramalist"

var (
	configPath string
	verbose    bool
	jsonOutput bool

	shutdownTelemetry = func(context.Context) error { return nil }
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file to read, its .local variant is merged over it.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information.")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as json instead of tables.")
}

var rootCmd = &cobra.Command{
	Use:           "dramalist",
	Short:         "dramalist scrapes titles, cast, recommendations and reviews off MyDramaList.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		libtelemetry.InitSlog(verbose, cfg.Production())

		t, err := libtelemetry.Setup(cmd.Context(), serviceName, cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		shutdownTelemetry = t.Shutdown

		tel := telemetry.SlogAPI{}
		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Config:  cfg,
			Tel:     tel,
			Service: cfg.NewService(tel),
			JSON:    jsonOutput,
		}))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := shutdownTelemetry(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	},
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
