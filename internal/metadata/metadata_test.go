// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ream/internal/httputil"
	"github.com/pdiddy/ream/pkg/types"
)

// failingTransport fails the test if any request is attempted.
type failingTransport struct {
	t *testing.T
}

func (ft failingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ft.t.Errorf("unexpected request to %s", r.URL)
	return nil, errors.New("no network in this test")
}

func TestLookupUnrecognizedMakesNoRequest(t *testing.T) {
	client := httputil.NewClient(&http.Client{Transport: failingTransport{t}}, types.HTTPConfig{})
	f := NewFetcher(client)

	for _, raw := range []string{
		"https://example.com/paper.pdf",
		"https://openreview.net/forum?id=xyz",
		"https://arxiv.org/",
		"https://arxiv.org/list/cs.CL/recent",
		"https://aclanthology.org/",
		"https://www.aclweb.org/portal/",
		"",
		"   ",
		"://bad url",
	} {
		t.Run(raw, func(t *testing.T) {
			md, ok, err := f.Lookup(context.Background(), raw)
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, md)
		})
	}
}

func TestLookupArxiv(t *testing.T) {
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/query" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleArxivFeed))
	}))

	md, ok, err := f.Lookup(context.Background(), "https://arxiv.org/abs/1905.00001v3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1905.00001", md.Identifier)
	assert.Equal(t, "A, B", md.Authors)
	assert.Equal(t, 2019, md.Year)
}

func TestLookupWithoutScheme(t *testing.T) {
	f := newTestFetcher(t, serveString("application/atom+xml", sampleArxivFeed))

	md, ok, err := f.Lookup(context.Background(), "arxiv.org/abs/1905.00001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A Study of Things", md.Title)
}

func TestLookupAnthologyVariants(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantXML   string
		wantVenue string
	}{
		{"current host", "https://aclanthology.org/2020.acl-main.1.pdf", "/2020.acl-main.1.xml", "ACL"},
		{"legacy host", "https://www.aclweb.org/anthology/2020.acl-main.1.pdf", "/anthology/2020.acl-main.1.xml", "NAACL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotXML string
			f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, ".xml") {
					gotXML = r.URL.Path
					w.Write([]byte(sampleMODS))
					return
				}
				// Both venue prefixes are present; only the one for the
				// host variant may be used.
				w.Write([]byte(`<html><body>
<a href="/anthology/venues/naacl/">NAACL</a>
<a href="/venues/acl/">ACL</a>
</body></html>`))
			}))

			md, ok, err := f.Lookup(context.Background(), tt.url)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.wantXML, gotXML)
			assert.Equal(t, tt.wantVenue, md.Venue)
			assert.Equal(t, "2020.acl-main.1", md.Identifier)
		})
	}
}

func TestLookupPropagatesFetchErrors(t *testing.T) {
	f := newTestFetcher(t, serveString("application/atom+xml", ""))

	md, ok, err := f.Lookup(context.Background(), "https://arxiv.org/abs/1905.00001")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.False(t, ok)
	assert.Nil(t, md)
}

func TestLookupLogsUnresolvedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := newTestFetcher(t, serveString("application/atom+xml", sampleArxivFeed), WithLogger(logger))

	_, ok, err := f.Lookup(context.Background(), "https://arxiv.org/abs/1905.00001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, buf.String(), "metadata fields fell back to defaults")
	assert.Contains(t, buf.String(), "venue")
}
