// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/ream/internal/httputil"
	"github.com/pdiddy/ream/pkg/types"
)

// overrideBaseURLs points the package-level upstream URLs at tsURL and
// restores the originals when the test ends.
func overrideBaseURLs(t *testing.T, tsURL string) {
	t.Helper()
	origAPI := arxivAPIBase
	origPDF := arxivPDFBase
	origAnth := anthologyBase
	origLegacy := legacyAnthologyBase

	arxivAPIBase = tsURL + "/api/query"
	arxivPDFBase = tsURL + "/pdf/"
	anthologyBase = tsURL + "/"
	legacyAnthologyBase = tsURL + "/anthology/"

	t.Cleanup(func() {
		arxivAPIBase = origAPI
		arxivPDFBase = origPDF
		anthologyBase = origAnth
		legacyAnthologyBase = origLegacy
	})
}

// newTestFetcher starts a server for handler, redirects the upstream URLs to
// it, and returns a Fetcher using the server's client.
func newTestFetcher(t *testing.T, handler http.Handler, opts ...Option) *Fetcher {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	overrideBaseURLs(t, ts.URL)

	client := httputil.NewClient(ts.Client(), types.HTTPConfig{
		Timeout:   5 * time.Second,
		UserAgent: "ream-test/0.1",
	})
	return NewFetcher(client, opts...)
}

// serveString returns a handler that always responds with body.
func serveString(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}
}
