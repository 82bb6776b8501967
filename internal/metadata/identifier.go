// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"net/url"
	"regexp"
	"strings"
)

// Source identifies the upstream a paper URL points at.
type Source int

const (
	SourceUnknown Source = iota
	SourceArxiv
	SourceAnthology
)

func (s Source) String() string {
	switch s {
	case SourceArxiv:
		return "arxiv"
	case SourceAnthology:
		return "acl-anthology"
	default:
		return "unknown"
	}
}

// SourceID is a paper identifier together with the source it belongs to.
type SourceID struct {
	Source Source

	// ID is the source-specific identifier, e.g. "2005.12345" or "2020.acl-main.1".
	ID string

	// Legacy is set for ACL Anthology identifiers taken from the old
	// aclweb.org host, whose pages live under /anthology/.
	Legacy bool
}

// Host suffixes recognized by ExtractID.
const (
	arxivHost           = "arxiv.org"
	anthologyHost       = "aclanthology.org"
	legacyAnthologyHost = "aclweb.org"
)

// arxivPathPattern matches "/<category>/<digits>.<digits>" followed by an
// optional non-digit tail such as a "v2" version suffix.
var arxivPathPattern = regexp.MustCompile(`^/[a-z]+/([0-9]+\.[0-9]+)(?:[^0-9].*)?$`)

// legacyAnthologyPathPattern matches "/anthology/<id>" with an optional
// trailing slash.
var legacyAnthologyPathPattern = regexp.MustCompile(`^/anthology/([^/]*)`)

// ExtractID determines which source u points at and extracts the paper
// identifier from its path. It reports false for unrecognized hosts and for
// recognized hosts whose path does not name a paper.
func ExtractID(u *url.URL) (SourceID, bool) {
	if u == nil {
		return SourceID{}, false
	}
	host := strings.ToLower(u.Hostname())

	switch {
	case strings.HasSuffix(host, arxivHost):
		m := arxivPathPattern.FindStringSubmatch(u.Path)
		if m == nil {
			return SourceID{}, false
		}
		return SourceID{Source: SourceArxiv, ID: m[1]}, true

	case strings.HasSuffix(host, legacyAnthologyHost):
		m := legacyAnthologyPathPattern.FindStringSubmatch(u.Path)
		if m == nil {
			return SourceID{}, false
		}
		return anthologyID(m[1], true)

	case strings.HasSuffix(host, anthologyHost):
		segment, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		return anthologyID(segment, false)
	}
	return SourceID{}, false
}

func anthologyID(segment string, legacy bool) (SourceID, bool) {
	id := strings.TrimSuffix(segment, ".pdf")
	if id == "" {
		return SourceID{}, false
	}
	return SourceID{Source: SourceAnthology, ID: id, Legacy: legacy}, true
}
