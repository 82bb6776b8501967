// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/ream/pkg/types"
)

// Base URLs for the ACL Anthology. The anthology moved from aclweb.org to
// aclanthology.org; identifiers are fetched from the host they were found on.
// Declared as vars so tests can substitute an httptest server.
var (
	anthologyBase       = "https://aclanthology.org/"
	legacyAnthologyBase = "https://www.aclweb.org/anthology/"
)

// AnthologyVenue is the venue reported when the landing page has no venue link.
const AnthologyVenue = "ACL Anthology"

// MODS XML structures. Only direct children of the first record are read, so
// names inside relatedItem (volume editors) are not taken as authors.
type modsCollection struct {
	XMLName xml.Name     `xml:"modsCollection"`
	Records []modsRecord `xml:"mods"`
}

type modsRecord struct {
	TitleInfo  []modsContainer `xml:"titleInfo"`
	OriginInfo []modsContainer `xml:"originInfo"`
	Names      []modsName      `xml:"name"`
}

// modsContainer keeps child elements in document order.
type modsContainer struct {
	Children []modsElement `xml:",any"`
}

type modsElement struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

type modsName struct {
	Parts     []string `xml:"namePart"`
	RoleTerms []string `xml:"role>roleTerm"`
}

// FetchAnthology retrieves the MODS record and the landing page for an ACL
// Anthology identifier. Title, year and authors come from the MODS record;
// the venue is the first venue link on the landing page.
func (f *Fetcher) FetchAnthology(ctx context.Context, id SourceID) (*types.Metadata, error) {
	base := anthologyBase
	if id.Legacy {
		base = legacyAnthologyBase
	}
	escaped := url.PathEscape(id.ID)

	xmlBody, err := f.get(ctx, "MODS record "+id.ID, base+escaped+".xml", "application/xml")
	if err != nil {
		return nil, err
	}
	md, authors, err := parseMODS(xmlBody)
	if err != nil {
		return nil, fmt.Errorf("ACL Anthology %s: %w", id.ID, err)
	}
	md.Source = SourceAnthology.String()
	md.Identifier = id.ID
	md.URL = base + escaped + ".pdf"

	htmlBody, err := f.get(ctx, "landing page "+id.ID, base+escaped+"/", "text/html")
	if err != nil {
		return nil, err
	}
	venue, err := findVenueLink(htmlBody, venuesPrefix(base))
	if err != nil {
		return nil, fmt.Errorf("ACL Anthology %s: %w", id.ID, err)
	}
	md.Venue = venue

	return finish(md, authors, AnthologyVenue)
}

// parseMODS reads title, year and authors from the first record of a MODS
// collection.
func parseMODS(body []byte) (*types.Metadata, []string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil, fmt.Errorf("%w: empty MODS document", ErrMalformed)
	}

	var coll modsCollection
	if err := xml.Unmarshal(body, &coll); err != nil {
		return nil, nil, fmt.Errorf("%w: parsing MODS: %w", ErrMalformed, err)
	}
	if len(coll.Records) == 0 {
		return nil, nil, fmt.Errorf("%w: MODS collection has no record", ErrMalformed)
	}
	rec := coll.Records[0]

	md := &types.Metadata{}
	if text, ok := firstChildText(rec.TitleInfo); ok {
		md.Title = text
	}
	// The first originInfo child is the issue date and always starts with
	// the year ("2020-07").
	if text, ok := firstChildText(rec.OriginInfo); ok {
		text = strings.TrimSpace(text)
		if len(text) >= 4 {
			md.Year = yearFromDate(text[:4], "-")
		}
	}

	var authors []string
	for _, n := range rec.Names {
		if len(n.RoleTerms) == 0 || strings.TrimSpace(n.RoleTerms[0]) != "author" {
			continue
		}
		if name := joinNameParts(n.Parts); name != "" {
			authors = append(authors, name)
		}
	}
	return md, authors, nil
}

func firstChildText(containers []modsContainer) (string, bool) {
	for _, c := range containers {
		if len(c.Children) > 0 {
			return c.Children[0].Text, true
		}
	}
	return "", false
}

// joinNameParts joins name parts with spaces. MODS does not mark initials, so
// a single-character part is assumed to be one and gets a trailing period.
func joinNameParts(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch utf8.RuneCountInString(p) {
		case 0:
			continue
		case 1:
			out = append(out, p+".")
		default:
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// venuesPrefix returns the path under which base links to venue pages:
// "/anthology/venues/" on the legacy host, "/venues/" on the current one.
func venuesPrefix(base string) string {
	path := "/"
	if u, err := url.Parse(base); err == nil && u.Path != "" {
		path = u.Path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path + "venues/"
}

// findVenueLink returns the text of the first link whose path starts with
// prefix, or "" when the page has none.
func findVenueLink(body []byte, prefix string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: parsing landing page: %w", ErrMalformed, err)
	}

	var venue string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil || !strings.HasPrefix(u.Path, prefix) {
			return true
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		venue = text
		return false
	})
	return venue, nil
}
