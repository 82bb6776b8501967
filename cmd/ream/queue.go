// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ream/internal/library"
	"github.com/pdiddy/ream/pkg/types"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the queue of papers to read",
}

// --- add subcommand ---

var queueAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Queue a paper by URL",
	Long: `Add looks up metadata for an arXiv or ACL Anthology URL and queues the
paper. Any of --title, --authors, --venue, --year override the looked-up
values. For other URLs, or with --no-lookup, the details come only from the
flags and --title is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueueAdd,
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	priority, err := priorityFlag(cmd)
	if err != nil {
		return err
	}

	cfg := loadConfig(viper.GetViper())
	fields := types.PaperFields{URL: rawURL}

	noLookup, _ := cmd.Flags().GetBool("no-lookup")
	if !noLookup {
		md, ok, err := newFetcher(cfg.Lookup).Lookup(cmd.Context(), rawURL)
		if err != nil {
			return fmt.Errorf("looking up %s: %w (use --no-lookup with --title to add it by hand)", rawURL, err)
		}
		if ok {
			fields = types.FieldsFromMetadata(md)
			for _, f := range md.Unresolved {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: %s could not be determined, using %q\n", f, fieldValue(fields, f))
			}
		}
	}
	if err := applyPaperFlags(cmd, &fields); err != nil {
		return err
	}
	if fields.Title == "" {
		return fmt.Errorf("no metadata found for %s; provide --title (and optionally --authors, --venue, --year)", rawURL)
	}

	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.AddQueued(cmd.Context(), types.QueuedPaper{PaperFields: fields, Priority: priority})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "queued %d: %s (%s %s, %s priority)\n",
		id, fields.Title, fields.Venue, yearCell(fields.Year), priority)
	return nil
}

func fieldValue(f types.PaperFields, name string) string {
	switch name {
	case types.FieldAuthors:
		return f.Authors
	case types.FieldVenue:
		return f.Venue
	}
	return ""
}

func priorityFlag(cmd *cobra.Command) (types.Priority, error) {
	s, _ := cmd.Flags().GetString("priority")
	return types.ParsePriority(s)
}

// --- list subcommand ---

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued papers by priority",
	Args:  cobra.NoArgs,
	RunE:  runQueueList,
}

func runQueueList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.ListQueued(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if papers == nil {
			papers = []types.QueuedPaper{}
		}
		return enc.Encode(papers)
	}
	if len(papers) == 0 {
		fmt.Fprintln(w, "The queue is empty.")
		return nil
	}

	rows := make([][]string, 0, len(papers))
	for _, p := range papers {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Priority.String(),
			p.Title,
			p.Authors,
			p.Venue,
			yearCell(p.Year),
			relativeTime(p.DateAdded),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"ID", "Priority", "Title", "Authors", "Venue", "Year", "Added"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

// --- edit subcommand ---

var queueEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Correct the details or priority of a queued paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueueEdit,
}

func runQueueEdit(cmd *cobra.Command, args []string) error {
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

	p, err := store.GetQueued(cmd.Context(), id)
	if err != nil {
		return err
	}
	if err := applyPaperFlags(cmd, &p.PaperFields); err != nil {
		return err
	}
	if cmd.Flags().Changed("priority") {
		if p.Priority, err = priorityFlag(cmd); err != nil {
			return err
		}
	}
	if err := store.UpdateQueued(cmd.Context(), p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated queued paper %d\n", id)
	return nil
}

// --- delete subcommand ---

var queueDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a paper from the queue",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueueDelete,
}

func runQueueDelete(cmd *cobra.Command, args []string) error {
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

	if err := store.DeleteQueued(cmd.Context(), id); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return fmt.Errorf("no queued paper with id %d", id)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted queued paper %d\n", id)
	return nil
}

func init() {
	queueAddCmd.Flags().String("priority", "medium", "priority: high, medium, or low")
	queueAddCmd.Flags().Bool("no-lookup", false, "skip the metadata lookup and use only the flags")
	addPaperFlags(queueAddCmd)

	queueListCmd.Flags().Bool("json", false, "output as JSON")

	queueEditCmd.Flags().String("priority", "", "priority: high, medium, or low")
	addPaperFlags(queueEditCmd)

	queueCmd.AddCommand(queueAddCmd, queueListCmd, queueEditCmd, queueDeleteCmd)
	rootCmd.AddCommand(queueCmd)
}
