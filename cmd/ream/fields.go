// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ream/pkg/types"
)

// addPaperFlags registers the flags for entering or correcting
// bibliographic fields by hand.
func addPaperFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "paper title")
	cmd.Flags().String("authors", "", `authors, e.g. "Ada Lovelace, Alan Turing"`)
	cmd.Flags().String("venue", "", "publication venue")
	cmd.Flags().Int("year", 0, "publication year")
	cmd.Flags().String("url", "", "PDF or landing page URL")
}

// applyPaperFlags overwrites the fields whose flags were set on the command line.
func applyPaperFlags(cmd *cobra.Command, f *types.PaperFields) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		f.Title, _ = flags.GetString("title")
	}
	if flags.Changed("authors") {
		f.Authors, _ = flags.GetString("authors")
	}
	if flags.Changed("venue") {
		f.Venue, _ = flags.GetString("venue")
	}
	if flags.Changed("year") {
		f.Year, _ = flags.GetInt("year")
		if f.Year < 0 || f.Year > 9999 {
			return fmt.Errorf("invalid year %d", f.Year)
		}
	}
	if flags.Changed("url") {
		f.URL, _ = flags.GetString("url")
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid paper id %q", s)
	}
	return id, nil
}
