// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ream CLI: a reading queue for
// research papers that fills in bibliographic metadata from arXiv and ACL
// Anthology URLs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in PersistentPreRunE from --log-level.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// rootCmd is the base command for the ream CLI.
var rootCmd = &cobra.Command{
	Use:   "ream",
	Short: "A reading queue for research papers",
	Long: `ream keeps a queue of papers to read and a log of papers already read.
Paste an arXiv or ACL Anthology URL and ream fills in the authors, title,
venue, and year; other URLs can be added with the details entered by hand.

Settings are read from ./ream.yaml or ~/.config/ream/ream.yaml and from
REAM_-prefixed environment variables (a local .env file is loaded first).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLogLevel(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ream.yaml or ~/.config/ream/ream.yaml)")
	rootCmd.PersistentFlags().String("db", "", "library database file (default ~/.local/share/ream/ream.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout for metadata lookups (default 30s)")

	viper.BindPFlag("library.db_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("lookup.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	setDefaults(viper.GetViper())
}

func initConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ream")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ream"))
		}
	}

	viper.SetEnvPrefix("REAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
