package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stanza/internal/cli"
	"github.com/aretw0/stanza/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stanza",
	Short: "Stanza builds found poems one chosen word at a time",
	Long: `Stanza walks word chains extracted from a poetry corpus. Each turn offers
up to three words; the sentence you pick becomes a poem.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a stanza.yaml configuration file")
	pf.String("dir", "", "Directory containing chain_<id>.json files")
	pf.String("url", "", "Base URL of a host serving /output/chain_<id>.json")
	pf.String("store", "", "Session store: memory, file or redis")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.Uint64("seed", 0, "Seed for reproducible choices (0 is random)")
}

// loadConfig reads the configuration file and environment, then applies flags set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Chains.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("url") {
		cfg.Chains.URL, _ = flags.GetString("url")
	}
	if flags.Changed("store") {
		cfg.Store.Kind, _ = flags.GetString("store")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("seed") {
		cfg.Engine.Seed, _ = flags.GetUint64("seed")
	}
	return cfg, cfg.Validate()
}

// newApp builds the application from configuration. A nil logger follows cfg.Log.
func newApp(cmd *cobra.Command, logger *slog.Logger) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(cfg, logger)
}
