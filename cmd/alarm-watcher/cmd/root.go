package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-notifier/internal/config"
	"github.com/oshokin/alarm-notifier/internal/service/watcher"
	"github.com/oshokin/alarm-notifier/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// alarmPath overrides the watched database path.
	alarmPath string

	// rootCmd represents the base command for polling the alarm flag.
	rootCmd = &cobra.Command{
		Use:   "alarm-watcher [database-url]",
		Short: "Poll the alarm flag and notify when it is switched on.",
		Long: `Polls the alarm flag in the Realtime Database and sends the security alert
notification to the "allUsers" topic whenever it goes from false to true.

The first read only records the current value. Writes landing between two
reads are merged: a false -> true -> false flip within one poll interval is
never notified, and repeated flips count as a single change.
Database URL can be provided as argument or loaded from configuration file.

Use this when no platform trigger delivers database events to alarm-notifier.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use database URL argument if provided, otherwise rely on config.
			var databaseURL string
			if len(args) > 0 {
				databaseURL = args[0]
			}

			return watcher.Run(ctx, &watcher.Options{
				ConfigPath:  configPath,
				DatabaseURL: databaseURL,
				AlarmPath:   alarmPath,
			})
		},
	}
)

// Execute runs the alarm-watcher CLI and exits with non-zero status on error.
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
