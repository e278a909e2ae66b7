// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/matchscrape/internal/config"
	"github.com/xkilldash9x/matchscrape/internal/observability"
	"github.com/xkilldash9x/matchscrape/internal/service"
)

// envPrefix namespaces every environment override, e.g. MATCHSCRAPE_OUTPUT_PATH.
const envPrefix = "MATCHSCRAPE"

// NewRootCommand returns the production root command.
func NewRootCommand() *cobra.Command {
	return newRootCmd(service.NewComponentFactory())
}

// newRootCmd builds a fresh command tree around factory. Each call gets its own
// viper instance so flags and config never leak between executions.
func newRootCmd(factory service.ComponentFactory) *cobra.Command {
	var (
		cfgFile string
		cfg     *config.Config
	)
	v := viper.New()
	config.SetDefaults(v)

	rootCmd := &cobra.Command{
		Use:   "matchscrape",
		Short: "Scrapes Dotabuff match history for a list of players into a spreadsheet.",
		Long: `matchscrape walks the paginated match history of every configured player,
extracts hero, result, game mode, duration and start time from each row, and
writes all records to a single spreadsheet once every player has been visited.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(cmd, v, cfgFile); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "matchscrape"})
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			loaded, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "matchscrape"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}
			cfg = loaded

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting matchscrape.", zap.String("version", Version))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd.Context(), cfg, factory, observability.GetLogger(), cmd.OutOrStdout())
		},
	}

	rootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	rootCmd.Flags().StringP("output", "o", "", "Output file path. (Overrides config/env)")
	rootCmd.Flags().StringP("format", "f", "", "Output format: xlsx, csv or json. (Overrides config/env)")
	rootCmd.Flags().String("engine", "", "Browser engine: chrome or static. (Overrides config/env)")
	rootCmd.Flags().StringSlice("players", nil, "Comma-separated player ids, in account order. (Overrides config/env)")

	return rootCmd
}

// flagKeys maps command-line flags to their viper keys.
var flagKeys = map[string]string{
	"output":  "output.path",
	"format":  "output.format",
	"engine":  "browser.engine",
	"players": "scraper.players",
}

// initializeConfig reads the config file and environment into v, then binds
// flags so they take precedence over both.
func initializeConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars
	}

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind --%s: %w", flag, err)
			}
		}
	}
	return nil
}

// Execute runs the root command. Errors are logged here; the caller only
// maps them to an exit code.
func Execute(ctx context.Context) error {
	defer observability.Sync()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		logger := observability.GetLogger()
		if errors.Is(err, context.Canceled) {
			logger.Warn("Scrape interrupted.")
		} else {
			logger.Error("Command execution failed", zap.Error(err))
		}
		return err
	}
	return nil
}
