// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Fields that may be listed in Metadata.Unresolved.
const (
	FieldAuthors = "authors"
	FieldVenue   = "venue"
)

// Metadata is the bibliographic record derived from a paper URL.
// Title and Year are always known when a Metadata is returned; Authors and
// Venue may have fallen back to defaults, in which case the field name
// appears in Unresolved.
type Metadata struct {
	// Authors is a ", "-joined list of author display names in document order.
	Authors string `json:"authors" yaml:"authors"`

	// Title is copied verbatim from the source document.
	Title string `json:"title" yaml:"title"`

	// Venue is a canonical venue abbreviation (optionally with a " WS"
	// workshop marker) or the source's default label.
	Venue string `json:"venue" yaml:"venue"`

	// Year is the four-digit publication year.
	Year int `json:"year" yaml:"year"`

	// URL is the direct PDF download URL.
	URL string `json:"url" yaml:"url"`

	// Source names the upstream the record came from ("arxiv", "acl-anthology").
	Source string `json:"source" yaml:"source"`

	// Identifier is the source-specific paper identifier (e.g. "2005.12345").
	Identifier string `json:"identifier" yaml:"identifier"`

	// Unresolved lists fields that could not be determined and hold a default.
	Unresolved []string `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// IsResolved reports whether field was determined from the source document.
func (m *Metadata) IsResolved(field string) bool {
	for _, f := range m.Unresolved {
		if f == field {
			return false
		}
	}
	return true
}
