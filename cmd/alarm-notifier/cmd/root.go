package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-notifier/internal/config"
	"github.com/oshokin/alarm-notifier/internal/service/receiver"
	"github.com/oshokin/alarm-notifier/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// alarmPath overrides the watched database path.
	alarmPath string

	// rootCmd represents the base command for running the event receiver.
	rootCmd = &cobra.Command{
		Use:   "alarm-notifier [listen-address]",
		Short: "Send a push notification when the alarm is switched on.",
		Long: `Starts the HTTP receiver for Realtime Database write events on the alarm flag.

Every event whose value goes from false to true sends the security alert
notification to the "allUsers" topic. Any other write is acknowledged and ignored.
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
The PORT environment variable is honoured when neither is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise the hosting port.
			var listenAddress string

			switch {
			case len(args) > 0:
				listenAddress = args[0]
			case os.Getenv("PORT") != "":
				listenAddress = ":" + os.Getenv("PORT")
			}

			return receiver.Run(ctx, &receiver.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				AlarmPath:     alarmPath,
			})
		},
	}
)

// Execute runs the alarm-notifier CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+")")
	rootCmd.Flags().StringVarP(&alarmPath, "path", "p", "", "database path of the alarm flag")
}
