// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ream/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <url>",
	Short: "Show the metadata ream derives from a paper URL",
	Long: `Lookup fetches bibliographic metadata for an arXiv or ACL Anthology URL
and prints it without adding anything to the library. URLs from other sites
print "no metadata" and exit successfully.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	fetcher := newFetcher(cfg.Lookup)

	md, ok, err := fetcher.Lookup(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("looking up %s: %w", args[0], err)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "no metadata: %s is not a recognized arXiv or ACL Anthology paper URL\n", args[0])
		return nil
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeMetadata(cmd.OutOrStdout(), md, jsonOutput)
}

func writeMetadata(w io.Writer, md *types.Metadata, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(md)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(md); err != nil {
		return err
	}
	return enc.Close()
}
