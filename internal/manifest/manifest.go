package manifest

import (
	"bufio"
	"fmt"
	"strings"
)

// Mode selects how entry lines are interpreted during parsing.
type Mode string

const (
	// ModeImage treats the full trimmed line as the entry value.
	ModeImage Mode = "image"
	// ModeVideo strips inline annotation tokens (words ending in "#")
	// and uses the remainder as a search phrase.
	ModeVideo Mode = "video"
)

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeImage:
		return ModeImage, nil
	case ModeVideo:
		return ModeVideo, nil
	}
	return "", fmt.Errorf("unknown manifest mode %q (want %q or %q)", s, ModeImage, ModeVideo)
}

// Entry is a single named line inside a section.
type Entry struct {
	// DisplayName is the human-readable name for the entry.
	DisplayName string `json:"displayName"`
	// RawValue is the value handed to the candidate resolver.
	RawValue string `json:"rawValue"`
}

// Section groups entries under a name taken from a "#" header line.
type Section struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Warning reports a non-fatal problem encountered while parsing.
type Warning struct {
	// Line is the 1-based line number in the manifest text.
	Line int `json:"line"`
	// Text is the offending line, trimmed.
	Text string `json:"text"`
	// Reason explains why the line was skipped.
	Reason string `json:"reason"`
}

// Document is the parsed form of a manifest. Sections appear in
// first-encounter order; re-declaring a section name appends to the
// existing section rather than replacing it.
type Document struct {
	Sections []*Section `json:"sections"`
	Warnings []Warning  `json:"warnings,omitempty"`

	index map[string]*Section
}

// Section returns the named section, or nil if it does not exist.
func (d *Document) Section(name string) *Section {
	return d.index[name]
}

// EntryCount returns the total number of entries across all sections.
func (d *Document) EntryCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Entries)
	}
	return n
}

func (d *Document) section(name string) *Section {
	if s, ok := d.index[name]; ok {
		return s
	}
	s := &Section{Name: name}
	d.index[name] = s
	d.Sections = append(d.Sections, s)
	return s
}

// Parse converts manifest text into a Document. It is a pure function of
// its inputs: the same text and mode always produce the same structure.
//
// A line whose first non-space character is '#' opens (or resumes) the
// section named by the remainder of the line. Blank lines are skipped.
// Any other line is an entry appended to the active section; entry lines
// seen before the first header are dropped and reported as warnings,
// never as errors, so one bad line cannot stop the rest of the manifest
// from parsing.
func Parse(text string, mode Mode) *Document {
	doc := &Document{index: make(map[string]*Section)}

	var current *Section
	lineNo := 0

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			name := strings.TrimSpace(line[1:])
			current = doc.section(name)
			continue
		}

		if current == nil {
			doc.Warnings = append(doc.Warnings, Warning{
				Line:   lineNo,
				Text:   line,
				Reason: "entry before any section header; add a section using #",
			})
			continue
		}

		current.Entries = append(current.Entries, makeEntry(line, mode))
	}

	return doc
}

// makeEntry applies the per-mode extraction rules to a trimmed,
// non-empty entry line.
func makeEntry(line string, mode Mode) Entry {
	raw := line
	if mode == ModeVideo {
		raw = stripAnnotations(line)
	}

	display := raw
	if mode == ModeImage {
		display = line
	}
	if i := strings.Index(display, "#"); i >= 0 {
		display = strings.TrimSpace(display[i+1:])
	}

	return Entry{DisplayName: display, RawValue: raw}
}

// stripAnnotations removes every whitespace-separated token ending in
// "#" and re-joins the rest with single spaces. These trailing-# tokens
// are inline annotations, not part of the search phrase.
func stripAnnotations(line string) string {
	fields := strings.Fields(line)
	kept := fields[:0]
	for _, f := range fields {
		if strings.HasSuffix(f, "#") {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
