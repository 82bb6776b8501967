// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"sort"
	"strings"
)

// WorkshopSuffix is appended to a guessed venue when the comment mentions a
// workshop.
const WorkshopSuffix = " WS"

// defaultVenues is the built-in venue vocabulary, grouped by field. Order
// within the single-word tier is the match priority; multi-word names are
// always tried first (see NewGuesser).
var defaultVenues = []string{
	// NLP
	"ACL", "TACL", "Findings of ACL", "Findings of EMNLP", "Findings of NAACL",
	"EMNLP", "NAACL", "EACL", "AACL", "CoNLL", "COLING", "LREC",
	// ML
	"ICML", "NIPS", "NeurIPS", "ICLR", "JMLR", "COLT", "UAI", "AISTATS", "ECML",
	// AI
	"AAAI", "IJCAI", "JAIR",
	// CV
	"CVPR", "ICCV", "ECCV",
	// Robotics
	"ICRA", "IROS",
	// Other
	"CIKM", "KDD", "VLDB", "WSDM", "FOCS", "STOC", "ITCS", "SIGIR", "UIST", "ICASSP",
	// Short names that also occur as ordinary words; keep last.
	"SODA", "CHI", "RSS", "WWW",
}

// defaultRenames maps a matched venue to the name reported for it. NIPS is
// still matched so older comments resolve, but reported under its current name.
var defaultRenames = map[string]string{
	"NIPS": "NeurIPS",
}

// DefaultVenues returns a copy of the built-in venue vocabulary.
func DefaultVenues() []string {
	return append([]string(nil), defaultVenues...)
}

// DefaultRenames returns a copy of the built-in rename table.
func DefaultRenames() map[string]string {
	m := make(map[string]string, len(defaultRenames))
	for k, v := range defaultRenames {
		m[k] = v
	}
	return m
}

type venueCandidate struct {
	name      string
	lower     string
	multiWord bool
}

// Guesser infers a publication venue from free-text comments such as
// "To appear at ACL 2020". A Guesser is immutable and safe for concurrent use.
type Guesser struct {
	candidates []venueCandidate
	renames    map[string]string
}

// NewGuesser builds a Guesser over venues. Candidates are ordered in two
// tiers: multi-word names first, longest first, so that "Findings of EMNLP"
// is preferred over "EMNLP"; then single-word names in the given order.
// Duplicate names (case-insensitive) keep their first occurrence.
func NewGuesser(venues []string, renames map[string]string) *Guesser {
	g := &Guesser{renames: make(map[string]string, len(renames))}
	for k, v := range renames {
		g.renames[k] = v
	}

	seen := make(map[string]bool, len(venues))
	for _, v := range venues {
		name := strings.Join(strings.Fields(v), " ")
		lower := strings.ToLower(name)
		if name == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		g.candidates = append(g.candidates, venueCandidate{
			name:      name,
			lower:     lower,
			multiWord: strings.Contains(name, " "),
		})
	}

	sort.SliceStable(g.candidates, func(i, j int) bool {
		a, b := g.candidates[i], g.candidates[j]
		if a.multiWord != b.multiWord {
			return a.multiWord
		}
		if a.multiWord {
			return len(a.name) > len(b.name)
		}
		return false
	})
	return g
}

// Venues returns the candidate names in match order.
func (g *Guesser) Venues() []string {
	out := make([]string, len(g.candidates))
	for i, c := range g.candidates {
		out[i] = c.name
	}
	return out
}

// Guess returns the first candidate venue mentioned in comment. Multi-word
// candidates match anywhere in the lowercased text; single-word candidates
// must equal a whole token, where hyphens also separate tokens so that
// "ACL-IJCNLP" yields "acl". The result carries WorkshopSuffix when the token
// "workshop" is present. It reports false when nothing matches.
func (g *Guesser) Guess(comment string) (string, bool) {
	lower := strings.ToLower(comment)
	tokens := tokenize(lower)

	var venue string
	for _, c := range g.candidates {
		if (c.multiWord && strings.Contains(lower, c.lower)) || (!c.multiWord && tokens[c.lower]) {
			venue = c.name
			break
		}
	}
	if venue == "" {
		return "", false
	}

	if renamed, ok := g.renames[venue]; ok {
		venue = renamed
	}
	if tokens["workshop"] {
		venue += WorkshopSuffix
	}
	return venue, true
}

// tokenPunct is stripped from both ends of each token so that "EMNLP," or
// "(ICML)" still match.
const tokenPunct = `.,;:!?()[]{}"'`

func tokenize(lower string) map[string]bool {
	fields := strings.Fields(strings.ReplaceAll(lower, "-", " "))
	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, tokenPunct); t != "" {
			tokens[t] = true
		}
	}
	return tokens
}

var defaultGuesser = NewGuesser(defaultVenues, defaultRenames)

// GuessVenue guesses a venue using the built-in vocabulary.
func GuessVenue(comment string) (string, bool) {
	return defaultGuesser.Guess(comment)
}
