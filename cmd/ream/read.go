// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ream/internal/library"
	"github.com/pdiddy/ream/pkg/types"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Record papers as read and manage the read log",
}

// --- add subcommand ---

var readAddCmd = &cobra.Command{
	Use:   "add <queued-id>",
	Short: "Move a queued paper to the read log",
	Long: `Add marks a queued paper as read with a status (intro, partial, skim,
read) and an optional note. The date it was queued is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runReadAdd,
}

func runReadAdd(cmd *cobra.Command, args []string) error {
	queuedID, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, err := statusFlag(cmd)
	if err != nil {
		return err
	}
	note, _ := cmd.Flags().GetString("note")

	cfg := loadConfig(viper.GetViper())
	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	q, err := store.GetQueued(cmd.Context(), queuedID)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return fmt.Errorf("no queued paper with id %d", queuedID)
		}
		return err
	}
	fields := q.PaperFields
	if err := applyPaperFlags(cmd, &fields); err != nil {
		return err
	}

	id, err := store.MarkRead(cmd.Context(), queuedID, types.ReadPaper{
		PaperFields: fields,
		Status:      status,
		Note:        note,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "read %d: %s (%s)\n", id, fields.Title, status)
	return nil
}

func statusFlag(cmd *cobra.Command) (types.ReadStatus, error) {
	s, _ := cmd.Flags().GetString("status")
	return types.ParseReadStatus(s)
}

// --- list subcommand ---

var readListCmd = &cobra.Command{
	Use:   "list",
	Short: "List read papers, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runReadList,
}

const notePreviewLen = 40

func runReadList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.ListRead(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if papers == nil {
			papers = []types.ReadPaper{}
		}
		return enc.Encode(papers)
	}
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers read yet.")
		return nil
	}

	rows := make([][]string, 0, len(papers))
	for _, p := range papers {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Status.String(),
			p.Title,
			p.Authors,
			p.Venue,
			yearCell(p.Year),
			relativeTime(p.DateRead),
			notePreview(p.Note),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"ID", "Status", "Title", "Authors", "Venue", "Year", "Read", "Note"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}

func notePreview(note string) string {
	note = strings.Join(strings.Fields(note), " ")
	if len([]rune(note)) > notePreviewLen {
		return string([]rune(note)[:notePreviewLen-3]) + "..."
	}
	return note
}

// --- show subcommand ---

var readShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a read paper with its full note",
	Args:  cobra.ExactArgs(1),
	RunE:  runReadShow,
}

func runReadShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	cfg := loadConfig(viper.GetViper())
	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.GetRead(cmd.Context(), id)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s\n", p.Title)
	fmt.Fprintf(w, "  authors: %s\n", p.Authors)
	fmt.Fprintf(w, "  venue:   %s %s\n", p.Venue, yearCell(p.Year))
	fmt.Fprintf(w, "  url:     %s\n", p.URL)
	fmt.Fprintf(w, "  status:  %s (queued %s, read %s)\n", p.Status, relativeTime(p.DateAdded), relativeTime(p.DateRead))
	if p.Note != "" {
		fmt.Fprintf(w, "\n%s\n", p.Note)
	}
	return nil
}

// --- edit subcommand ---

var readEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Correct the details, status, or note of a read paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runReadEdit,
}

func runReadEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	cfg := loadConfig(viper.GetViper())
	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.GetRead(cmd.Context(), id)
	if err != nil {
		return err
	}
	if err := applyPaperFlags(cmd, &p.PaperFields); err != nil {
		return err
	}
	if cmd.Flags().Changed("status") {
		if p.Status, err = statusFlag(cmd); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("note") {
		p.Note, _ = cmd.Flags().GetString("note")
	}
	if err := store.UpdateRead(cmd.Context(), p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated read paper %d\n", id)
	return nil
}

// --- delete subcommand ---

var readDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a paper from the read log",
	Args:  cobra.ExactArgs(1),
	RunE:  runReadDelete,
}

func runReadDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	cfg := loadConfig(viper.GetViper())
	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteRead(cmd.Context(), id); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return fmt.Errorf("no read paper with id %d", id)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted read paper %d\n", id)
	return nil
}

func init() {
	readAddCmd.Flags().String("status", "read", "how far it was read: intro, partial, skim, or read")
	readAddCmd.Flags().String("note", "", "note about the paper")
	addPaperFlags(readAddCmd)

	readListCmd.Flags().Bool("json", false, "output as JSON")

	readEditCmd.Flags().String("status", "", "how far it was read: intro, partial, skim, or read")
	readEditCmd.Flags().String("note", "", "replace the note")
	addPaperFlags(readEditCmd)

	readCmd.AddCommand(readAddCmd, readListCmd, readShowCmd, readEditCmd, readDeleteCmd)
	rootCmd.AddCommand(readCmd)
}
