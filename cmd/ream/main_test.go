// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ream/internal/library"
	"github.com/pdiddy/ream/pkg/types"
)

func TestParseLogLevel(t *testing.T) {
	level, err := parseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = parseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = parseLogLevel("chatty")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestApplyPaperFlagsOnlyChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	addPaperFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--title", "New Title", "--year", "2021"}))

	f := types.PaperFields{Authors: "A", Title: "Old", Venue: "ACL", Year: 2019, URL: "https://x"}
	require.NoError(t, applyPaperFlags(cmd, &f))
	assert.Equal(t, types.PaperFields{Authors: "A", Title: "New Title", Venue: "ACL", Year: 2021, URL: "https://x"}, f)
}

func TestApplyPaperFlagsRejectsBadYear(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	addPaperFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--year", "12345"}))

	var f types.PaperFields
	assert.Error(t, applyPaperFlags(cmd, &f))
}

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("library.db_path", "/tmp/lib.db")

	cfg := loadConfig(v)
	assert.Equal(t, defaultTimeout, cfg.Lookup.Timeout)
	assert.Equal(t, defaultUserAgent, cfg.Lookup.UserAgent)
	assert.InDelta(t, defaultRateLimit, cfg.Lookup.RateLimit, 1e-9)
	assert.Equal(t, "/tmp/lib.db", cfg.Library.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("lookup.timeout", "5s")
	v.Set("lookup.rate_limit", 0)
	v.Set("lookup.extra_venues", []string{"ICWSM"})
	v.Set("lookup.venue_renames", map[string]string{"nips": "NIPS"})

	cfg := loadConfig(v)
	assert.Equal(t, 5*time.Second, cfg.Lookup.Timeout)
	assert.Zero(t, cfg.Lookup.RateLimit)
	assert.Equal(t, []string{"ICWSM"}, cfg.Lookup.ExtraVenues)
	assert.Equal(t, map[string]string{"nips": "NIPS"}, cfg.Lookup.VenueRenames)
}

func TestCanonicalVenue(t *testing.T) {
	venues := []string{"ACL", "NIPS", "Findings of ACL"}
	assert.Equal(t, "NIPS", canonicalVenue(venues, "nips"))
	assert.Equal(t, "Findings of ACL", canonicalVenue(venues, "findings of acl"))
	assert.Equal(t, "icwsm", canonicalVenue(venues, "icwsm"))
}

func TestWriteMetadata(t *testing.T) {
	md := &types.Metadata{Authors: "A, B", Title: "T", Venue: "arXiv", Year: 2019, URL: "https://arxiv.org/pdf/1234.5678"}

	var buf bytes.Buffer
	require.NoError(t, writeMetadata(&buf, md, false))
	assert.Contains(t, buf.String(), "title: T\n")
	assert.Contains(t, buf.String(), "year: 2019\n")

	buf.Reset()
	require.NoError(t, writeMetadata(&buf, md, true))
	var got types.Metadata
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *md, got)
}

func TestNotePreview(t *testing.T) {
	assert.Equal(t, "short note", notePreview("short\n  note"))
	long := strings.Repeat("x", 60)
	got := notePreview(long)
	assert.Len(t, []rune(got), notePreviewLen)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTableCells(t *testing.T) {
	assert.Equal(t, "-", yearCell(0))
	assert.Equal(t, "2020", yearCell(2020))
	assert.Equal(t, "-", relativeTime(time.Time{}))

	out := renderTable([]string{"ID", "Title"}, [][]string{{"1", "A Paper"}}, []columnAlignment{alignRight, alignLeft})
	assert.Contains(t, out, "A Paper")
	assert.Contains(t, out, "Title")
}

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestQueueReadWorkflow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ream.db")

	out, err := execute(t, "--db", db, "queue", "add", "https://example.com/paper.pdf",
		"--no-lookup", "--title", "Hand Entered", "--authors", "Ada Lovelace", "--year", "2020", "--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "queued 1: Hand Entered")

	out, err = execute(t, "--db", db, "queue", "list", "--json")
	require.NoError(t, err)
	var queued []types.QueuedPaper
	require.NoError(t, json.Unmarshal([]byte(out), &queued))
	require.Len(t, queued, 1)
	assert.Equal(t, types.PriorityHigh, queued[0].Priority)
	assert.Equal(t, "https://example.com/paper.pdf", queued[0].URL)

	out, err = execute(t, "--db", db, "read", "add", "1", "--status", "skim", "--note", "worth a second look")
	require.NoError(t, err)
	assert.Contains(t, out, "read 1: Hand Entered (Skim)")

	out, err = execute(t, "--db", db, "read", "list", "--json")
	require.NoError(t, err)
	var read []types.ReadPaper
	require.NoError(t, json.Unmarshal([]byte(out), &read))
	require.Len(t, read, 1)
	assert.Equal(t, types.StatusSkim, read[0].Status)
	assert.Equal(t, "worth a second look", read[0].Note)
	assert.Equal(t, 2020, read[0].Year)

	store, err := library.Open(types.LibraryConfig{DBPath: db})
	require.NoError(t, err)
	defer store.Close()
	remaining, err := store.ListQueued(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = execute(t, "--db", db, "read", "delete", "99")
	assert.ErrorContains(t, err, "no read paper with id 99")
}

func TestQueueAddRequiresTitleWithoutMetadata(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ream.db")
	// Flags keep their values between executions of the shared command tree.
	require.NoError(t, queueAddCmd.Flags().Set("title", ""))

	_, err := execute(t, "--db", db, "queue", "add", "https://example.com/x.pdf", "--no-lookup")
	assert.ErrorContains(t, err, "provide --title")
}
