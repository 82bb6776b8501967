// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ream/internal/library"
)

var importCmd = &cobra.Command{
	Use:   "import <old-db>",
	Short: "Import papers from an older ream database",
	Long: `Import copies queued and read papers from a database written by an
older version of ream (tables queued_paper and read_paper) into the library.
The import is all-or-nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.ImportLegacy(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d paper(s): %d queued, %d read\n",
		summary.Total(), summary.Queued, summary.Read)
	return nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole library as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return library.WriteJSON(w, snap)
	}
	return library.WriteYAML(w, snap)
}

func init() {
	exportCmd.Flags().Bool("json", false, "write JSON instead of YAML")
	exportCmd.Flags().String("out", "", "write to a file instead of stdout")

	rootCmd.AddCommand(importCmd, exportCmd)
}
