// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/ream/internal/httputil"
	"github.com/pdiddy/ream/internal/metadata"
	"github.com/pdiddy/ream/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "ream/0.1 (+https://github.com/pdiddy/ream)"
	// arXiv asks API clients to wait three seconds between requests.
	defaultRateLimit = 1.0 / 3
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("lookup.timeout", defaultTimeout)
	v.SetDefault("lookup.user_agent", defaultUserAgent)
	v.SetDefault("lookup.rate_limit", defaultRateLimit)
	v.SetDefault("library.db_path", defaultDBPath())
	v.SetDefault("log_level", "warn")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ream.db"
	}
	return filepath.Join(home, ".local", "share", "ream", "ream.db")
}

// loadConfig assembles the configuration from defaults, the config file,
// the environment, and bound flags.
func loadConfig(v *viper.Viper) types.Config {
	cfg := types.Config{
		Lookup: types.LookupConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("lookup.timeout"),
				UserAgent: v.GetString("lookup.user_agent"),
				RateLimit: v.GetFloat64("lookup.rate_limit"),
			},
			ExtraVenues:  v.GetStringSlice("lookup.extra_venues"),
			VenueRenames: v.GetStringMapString("lookup.venue_renames"),
		},
		Library: types.LibraryConfig{
			DBPath: v.GetString("library.db_path"),
		},
		LogLevel: v.GetString("log_level"),
	}
	if cfg.Lookup.Timeout <= 0 {
		cfg.Lookup.Timeout = defaultTimeout
	}
	if cfg.Lookup.UserAgent == "" {
		cfg.Lookup.UserAgent = defaultUserAgent
	}
	return cfg
}

// newFetcher builds a metadata fetcher for cfg. Configured venues are added
// after the built-in vocabulary, and configured renames override built-in ones.
// Viper lowercases map keys, so rename keys are matched case-insensitively
// against the vocabulary.
func newFetcher(cfg types.LookupConfig) *metadata.Fetcher {
	opts := []metadata.Option{metadata.WithLogger(logger)}

	if len(cfg.ExtraVenues) > 0 || len(cfg.VenueRenames) > 0 {
		venues := append(metadata.DefaultVenues(), cfg.ExtraVenues...)
		renames := metadata.DefaultRenames()
		for from, to := range cfg.VenueRenames {
			renames[canonicalVenue(venues, from)] = to
		}
		opts = append(opts, metadata.WithGuesser(metadata.NewGuesser(venues, renames)))
	}

	client := httputil.NewClient(nil, cfg.HTTPConfig)
	return metadata.NewFetcher(client, opts...)
}

func canonicalVenue(venues []string, name string) string {
	for _, v := range venues {
		if strings.EqualFold(v, name) {
			return v
		}
	}
	return name
}
