// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/ream/pkg/types"
)

// Base URLs for arXiv. Declared as vars so tests can substitute an
// httptest server.
var (
	arxivAPIBase = "https://export.arxiv.org/api/query"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

// ArxivVenue is the venue reported when the comment names no known venue.
const ArxivVenue = "arXiv"

// arXiv Atom feed XML structures. The comment element lives in the arXiv
// namespace; the remaining fields are plain Atom.
type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string        `xml:"id"`
	Updated string        `xml:"updated"`
	Title   string        `xml:"title"`
	Summary string        `xml:"summary"`
	Authors []arxivAuthor `xml:"author"`
	Comment *string       `xml:"comment"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// FetchArxiv retrieves the Atom entry for an arXiv identifier and maps it to
// a metadata record. The venue defaults to ArxivVenue unless the entry's
// comment names a known venue.
func (f *Fetcher) FetchArxiv(ctx context.Context, arxivID string) (*types.Metadata, error) {
	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, url.QueryEscape(arxivID))
	body, err := f.get(ctx, "arXiv entry "+arxivID, apiURL, "application/atom+xml")
	if err != nil {
		return nil, err
	}

	entry, err := parseArxivFeed(body)
	if err != nil {
		return nil, fmt.Errorf("arXiv %s: %w", arxivID, err)
	}

	md := &types.Metadata{
		Source:     SourceArxiv.String(),
		Identifier: arxivID,
		URL:        arxivPDFBase + arxivID + ".pdf",
		Title:      entry.Title,
		Year:       yearFromDate(entry.Updated, "-"),
	}

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	if entry.Comment != nil {
		if venue, ok := f.guesser.Guess(*entry.Comment); ok {
			md.Venue = venue
		} else {
			f.logger.Debug("no venue in arXiv comment", "id", arxivID, "comment", *entry.Comment)
		}
	}

	return finish(md, authors, ArxivVenue)
}

// parseArxivFeed decodes an Atom feed and returns its first entry.
func parseArxivFeed(body []byte) (*arxivEntry, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrMalformed)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: parsing Atom feed: %w", ErrMalformed, err)
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("%w: feed has no entry", ErrMalformed)
	}

	entry := &feed.Entries[0]
	// The API reports bad identifiers as an entry whose id points at its
	// error documentation.
	if strings.Contains(entry.ID, "/api/errors") {
		return nil, fmt.Errorf("%w: arXiv API error: %s", ErrUpstream, strings.TrimSpace(entry.Summary))
	}
	return entry, nil
}

// yearFromDate returns the leading component of a date such as
// "2019-05-01T00:00:00Z", or 0 when it is not a number.
func yearFromDate(date, sep string) int {
	head, _, _ := strings.Cut(strings.TrimSpace(date), sep)
	y, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return y
}
