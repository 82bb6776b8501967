// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ream/pkg/types"
)

const sampleMODS = `<?xml version="1.0" encoding="UTF-8"?>
<modsCollection xmlns="http://www.loc.gov/mods/v3">
<mods ID="2020.acl-main.1">
    <titleInfo>
        <title>Learning to Understand Child-directed and Adult-directed Speech</title>
    </titleInfo>
    <name type="personal">
        <namePart type="given">Lieke</namePart>
        <namePart type="family">Gelderloos</namePart>
        <role>
            <roleTerm authority="marcrelator" type="text">author</roleTerm>
        </role>
    </name>
    <name type="personal">
        <namePart type="given">Grzegorz</namePart>
        <namePart type="given">J</namePart>
        <namePart type="family">Chrupała</namePart>
        <role>
            <roleTerm authority="marcrelator" type="text">author</roleTerm>
        </role>
    </name>
    <name type="personal">
        <namePart type="given">Some</namePart>
        <namePart type="family">Translator</namePart>
        <role>
            <roleTerm authority="marcrelator" type="text">translator</roleTerm>
        </role>
    </name>
    <originInfo>
        <dateIssued>2020-07</dateIssued>
    </originInfo>
    <typeOfResource>text</typeOfResource>
    <relatedItem type="host">
        <titleInfo>
            <title>Proceedings of the 58th Annual Meeting of the Association for Computational Linguistics</title>
        </titleInfo>
        <name type="personal">
            <namePart type="given">Dan</namePart>
            <namePart type="family">Jurafsky</namePart>
            <role>
                <roleTerm authority="marcrelator" type="text">author</roleTerm>
            </role>
        </name>
        <originInfo>
            <dateIssued>1999-01</dateIssued>
        </originInfo>
    </relatedItem>
</mods>
</modsCollection>`

const sampleAnthologyPage = `<!DOCTYPE html>
<html><body>
<nav><a href="/">ACL Anthology</a><a href="/events/acl-2020/">ACL 2020</a></nav>
<dl>
  <dt>Venue:</dt>
  <dd><a href="/venues/acl/">ACL</a></dd>
  <dd><a href="/venues/ws/">WS</a></dd>
</dl>
</body></html>`

const sampleLegacyAnthologyPage = `<!DOCTYPE html>
<html><body>
<a href="/venues/acl/">wrong prefix</a>
<a href="/anthology/venues/naacl/"> NAACL </a>
</body></html>`

// anthologyHandler serves MODS XML for ".xml" paths and page for everything else.
func anthologyHandler(mods, page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".xml") {
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(mods))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}
}

func TestFetchAnthology(t *testing.T) {
	var paths []string
	handler := anthologyHandler(sampleMODS, sampleAnthologyPage)
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		handler(w, r)
	}))

	md, err := f.FetchAnthology(context.Background(), SourceID{Source: SourceAnthology, ID: "2020.acl-main.1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/2020.acl-main.1.xml", "/2020.acl-main.1/"}, paths)
	assert.Equal(t, "Learning to Understand Child-directed and Adult-directed Speech", md.Title)
	assert.Equal(t, 2020, md.Year)
	assert.Equal(t, "Lieke Gelderloos, Grzegorz J. Chrupała", md.Authors)
	assert.Equal(t, "ACL", md.Venue)
	assert.Equal(t, anthologyBase+"2020.acl-main.1.pdf", md.URL)
	assert.Equal(t, "acl-anthology", md.Source)
	assert.Empty(t, md.Unresolved)
}

func TestFetchAnthologyLegacyHost(t *testing.T) {
	var paths []string
	handler := anthologyHandler(sampleMODS, sampleLegacyAnthologyPage)
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		handler(w, r)
	}))

	md, err := f.FetchAnthology(context.Background(), SourceID{Source: SourceAnthology, ID: "P19-1001", Legacy: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"/anthology/P19-1001.xml", "/anthology/P19-1001/"}, paths)
	assert.Equal(t, "NAACL", md.Venue)
	assert.Equal(t, legacyAnthologyBase+"P19-1001.pdf", md.URL)
}

func TestFetchAnthologyNoVenueLinkFallsBack(t *testing.T) {
	f := newTestFetcher(t, anthologyHandler(sampleMODS, `<html><body><a href="/people/x/">X</a></body></html>`))

	md, err := f.FetchAnthology(context.Background(), SourceID{Source: SourceAnthology, ID: "2020.acl-main.1"})
	require.NoError(t, err)

	assert.Equal(t, AnthologyVenue, md.Venue)
	assert.Equal(t, []string{types.FieldVenue}, md.Unresolved)
	assert.False(t, md.IsResolved(types.FieldVenue))
	assert.True(t, md.IsResolved(types.FieldAuthors))
}

func TestFetchAnthologyFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{"empty xml", anthologyHandler("", sampleAnthologyPage), ErrMalformed},
		{"malformed xml", anthologyHandler("<modsCollection><mods>", sampleAnthologyPage), ErrMalformed},
		{"wrong root", anthologyHandler("<html></html>", sampleAnthologyPage), ErrMalformed},
		{"no record", anthologyHandler(`<modsCollection xmlns="http://www.loc.gov/mods/v3"></modsCollection>`, sampleAnthologyPage), ErrMalformed},
		{"no title", anthologyHandler(`<modsCollection><mods><originInfo><dateIssued>2020</dateIssued></originInfo></mods></modsCollection>`, sampleAnthologyPage), ErrIncomplete},
		{"short date", anthologyHandler(`<modsCollection><mods><titleInfo><title>T</title></titleInfo><originInfo><dateIssued>20</dateIssued></originInfo></mods></modsCollection>`, sampleAnthologyPage), ErrIncomplete},
		{"xml not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}, ErrUpstream},
		{"page not found", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, ".xml") {
				w.Write([]byte(sampleMODS))
				return
			}
			http.NotFound(w, r)
		}, ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFetcher(t, tt.handler)
			md, err := f.FetchAnthology(context.Background(), SourceID{Source: SourceAnthology, ID: "2020.acl-main.1"})
			require.Error(t, err)
			assert.Nil(t, md)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseMODSSkipsNamesWithoutRole(t *testing.T) {
	doc := `<modsCollection><mods>
<titleInfo><nonSort>The</nonSort><title>Paper</title></titleInfo>
<name><namePart>Nobody</namePart></name>
<name><namePart>Jane</namePart><namePart>Doe</namePart><role><roleTerm>author</roleTerm></role></name>
<originInfo><dateIssued>2018-10</dateIssued></originInfo>
</mods></modsCollection>`

	md, authors, err := parseMODS([]byte(doc))
	require.NoError(t, err)

	// The first child of titleInfo is taken as the title.
	assert.Equal(t, "The", md.Title)
	assert.Equal(t, 2018, md.Year)
	assert.Equal(t, []string{"Jane Doe"}, authors)
}

func TestJoinNameParts(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"Noah", "A", "Smith"}, "Noah A. Smith"},
		{[]string{"Ł", "Kaiser"}, "Ł. Kaiser"},
		{[]string{" Jane ", "", "Doe"}, "Jane Doe"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, joinNameParts(tt.parts), "joinNameParts(%q)", tt.parts)
	}
}

func TestVenuesPrefix(t *testing.T) {
	assert.Equal(t, "/venues/", venuesPrefix("https://aclanthology.org/"))
	assert.Equal(t, "/venues/", venuesPrefix("https://aclanthology.org"))
	assert.Equal(t, "/anthology/venues/", venuesPrefix("https://www.aclweb.org/anthology/"))
}

func TestFindVenueLinkAbsoluteHref(t *testing.T) {
	page := `<html><body>
<a>no href</a>
<a href="https://aclanthology.org/venues/emnlp/"><span>EMNLP</span></a>
</body></html>`

	venue, err := findVenueLink([]byte(page), "/venues/")
	require.NoError(t, err)
	assert.Equal(t, "EMNLP", venue)
}
