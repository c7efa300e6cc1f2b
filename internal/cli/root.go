// Package cli provides the command-line interface for rowlist.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/rowlist"
	"github.com/arloliu/rowlist/internal/logging"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

type configKey struct{}

type loggerKey struct{}

func configFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	cfg := Config{Contacts: "contacts.yaml", List: rowlist.DefaultConfig()}

	return &cfg
}

func loggerFromContext(ctx context.Context) rowlist.Logger {
	if l, ok := ctx.Value(loggerKey{}).(rowlist.Logger); ok {
		return l
	}

	return logging.NewNop()
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "rowlist",
		Short: "rowlist - partitioned contacts list engine",
		Long: `rowlist lays out a contacts file as a composite, sectioned list: favorites,
an account filter row and all contacts with a profile row, an alphabetic
section index and a pinned section header.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}

			cfg, used, err := LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			if used != "" {
				logger.Debug("using config file", "path", used)
			}
			cfg.List.ValidateWithWarnings(logger)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, rowlist.Logger(logger))
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+DefaultConfigFile+")")
	rootCmd.PersistentFlags().StringP("contacts", "f", "", "Path to the YAML contacts file")
	rootCmd.PersistentFlags().String("locale", "", "Locale of the section alphabet (e.g. en, ja, ru)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewBrowseCommand())

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rowlist v%s (%s)\n", Version, GitCommit)
		},
	}
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
