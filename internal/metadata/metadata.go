// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata derives bibliographic records from arXiv and ACL Anthology
// paper URLs. Lookup recognizes the URL, extracts the paper identifier, and
// fetches and parses the upstream documents: the arXiv Atom API for arXiv
// papers, and the MODS XML record plus the HTML landing page for ACL
// Anthology papers. arXiv venues are guessed from the submitter's comment.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pdiddy/ream/internal/httputil"
	"github.com/pdiddy/ream/pkg/types"
)

var (
	// ErrUpstream marks a failed request to an upstream server: a transport
	// error or a non-200 response (see httputil.StatusError).
	ErrUpstream = errors.New("upstream request failed")

	// ErrMalformed marks an upstream document that could not be parsed or
	// lacks the structure the parser expects.
	ErrMalformed = errors.New("malformed upstream document")

	// ErrIncomplete marks a document that parsed but did not yield a title
	// and a year.
	ErrIncomplete = errors.New("incomplete metadata")
)

// Fetcher looks up paper metadata from upstream sources.
type Fetcher struct {
	client  *httputil.Client
	guesser *Guesser
	logger  *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithGuesser replaces the built-in venue guesser.
func WithGuesser(g *Guesser) Option {
	return func(f *Fetcher) {
		f.guesser = g
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// NewFetcher returns a Fetcher that issues requests through client.
func NewFetcher(client *httputil.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  client,
		guesser: defaultGuesser,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Lookup derives metadata for the paper at rawURL. It reports false, with a
// nil error, when the URL is not a recognized paper URL; no request is made
// in that case. Errors from the upstream fetch are returned as-is.
func (f *Fetcher) Lookup(ctx context.Context, rawURL string) (*types.Metadata, bool, error) {
	u, err := parsePaperURL(rawURL)
	if err != nil {
		f.logger.Debug("unparseable url", "url", rawURL, "error", err)
		return nil, false, nil
	}

	id, ok := ExtractID(u)
	if !ok {
		f.logger.Debug("no paper identifier", "host", u.Host, "path", u.Path)
		return nil, false, nil
	}
	f.logger.Debug("dispatching lookup", "source", id.Source, "id", id.ID)

	var md *types.Metadata
	switch id.Source {
	case SourceArxiv:
		md, err = f.FetchArxiv(ctx, id.ID)
	case SourceAnthology:
		md, err = f.FetchAnthology(ctx, id)
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if len(md.Unresolved) > 0 {
		f.logger.Info("metadata fields fell back to defaults",
			"source", md.Source, "id", md.Identifier, "fields", md.Unresolved)
	}
	return md, true, nil
}

// parsePaperURL parses raw, assuming https when the scheme is omitted
// ("arxiv.org/abs/2005.12345").
func parsePaperURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return url.Parse(raw)
}

// get wraps transport and status failures in ErrUpstream.
func (f *Fetcher) get(ctx context.Context, what, url, accept string) ([]byte, error) {
	f.logger.Debug("fetching", "document", what, "url", url)
	body, err := f.client.Get(ctx, url, accept)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", ErrUpstream, what, err)
	}
	return body, nil
}

// finish applies the shared partial-result policy: Title and Year are
// required, while missing Authors and Venue fall back to defaults and are
// recorded in Unresolved.
func finish(md *types.Metadata, authors []string, defaultVenue string) (*types.Metadata, error) {
	if strings.TrimSpace(md.Title) == "" {
		return nil, fmt.Errorf("%w: %s %s has no title", ErrIncomplete, md.Source, md.Identifier)
	}
	if !plausibleYear(md.Year) {
		return nil, fmt.Errorf("%w: %s %s has no publication year", ErrIncomplete, md.Source, md.Identifier)
	}

	md.Authors = strings.Join(authors, ", ")
	if len(authors) == 0 {
		md.Unresolved = append(md.Unresolved, types.FieldAuthors)
	}
	if md.Venue == "" {
		md.Venue = defaultVenue
		md.Unresolved = append(md.Unresolved, types.FieldVenue)
	}
	return md, nil
}

func plausibleYear(y int) bool {
	return y >= 1000 && y <= 9999
}
