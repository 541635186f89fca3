package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/entrypoint"
)

var rootFlags struct {
	LogLevel string
}

// NewRootCommand builds the command tree. Running without a subcommand
// starts the web server.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "bestsellers",
		Short: "Browse the NY Times best-seller lists and track the books you read",
		Example: `bestsellers
  bestsellers serve --log-level debug
  bestsellers seed-book --isbn 0425148297 --title "Naked in Death" --author "J.D. Robb"
  bestsellers create-user --username alice --email alice@example.com --password secret`,
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := rootFlags.LogLevel
			if level == "" {
				level = config.NewConfig().Log.Level
			}
			setLogLevel(level)
		},
		Run: func(_ *cobra.Command, _ []string) {
			entrypoint.Run(config.NewConfig(), version)
		},
	}

	root.PersistentFlags().StringVar(&rootFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error), overrides LOG_LEVEL")

	root.AddCommand(
		newServeCommand(version),
		newSeedBookCommand(),
		newListBooksCommand(),
		newDeleteBookCommand(),
		newCreateUserCommand(),
	)
	return root
}

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			entrypoint.Run(config.NewConfig(), version)
		},
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("unknown log level %s, defaulting to info", level)
		log.SetLevel(log.InfoLevel)
	}
}
