package resolver

import (
	"strings"

	"manifest-gallery/internal/manifest"
	"manifest-gallery/internal/templates"
)

// Candidate is one concrete URL produced for a manifest entry from one
// selected template. Candidates for the same entry are ordered by the
// caller's template selection, which is also the fallback order used by
// the fetcher.
type Candidate struct {
	// Section is the name of the section the entry belongs to.
	Section string `json:"section"`
	// Index is the entry's 0-based position inside its section.
	Index int `json:"index"`
	// DisplayName is the entry's human-readable name.
	DisplayName string `json:"displayName"`
	// Label is the template label that produced the URL.
	Label string `json:"label"`
	// URL is the fully substituted URL.
	URL string `json:"url"`
}

// Substitute prepares an entry's raw value for URL injection: spaces
// become "+" so the value survives as a single query token.
func Substitute(raw string) string {
	return strings.ReplaceAll(raw, " ", "+")
}

// Resolve produces one Candidate per selected template, in selection
// order. It is a pure string transformation with no I/O; templates with
// a malformed placeholder count are a configuration error rejected at
// load time, not here.
func Resolve(section string, index int, entry manifest.Entry, selected []templates.Template) []Candidate {
	value := Substitute(entry.RawValue)
	candidates := make([]Candidate, 0, len(selected))
	for _, t := range selected {
		candidates = append(candidates, Candidate{
			Section:     section,
			Index:       index,
			DisplayName: entry.DisplayName,
			Label:       t.Label,
			URL:         t.Fill(value),
		})
	}
	return candidates
}
