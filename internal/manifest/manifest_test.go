package manifest

import (
	"reflect"
	"testing"
)

func TestParseModeValues(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"image", ModeImage, false},
		{"video", ModeVideo, false},
		{"IMAGE", ModeImage, false},
		{" video ", ModeVideo, false},
		{"audio", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSectionsAndEntries(t *testing.T) {
	text := "# Beaches\nsunset beach\n\n# Mountains\nalpine ridge\n# Beaches\nrocky cove\n"

	doc := Parse(text, ModeImage)

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Name != "Beaches" || doc.Sections[1].Name != "Mountains" {
		t.Errorf("sections out of encounter order: %q, %q", doc.Sections[0].Name, doc.Sections[1].Name)
	}

	// Re-declaring "Beaches" appends rather than replaces.
	beaches := doc.Section("Beaches")
	if beaches == nil {
		t.Fatal("section Beaches missing")
	}
	wantEntries := []Entry{
		{DisplayName: "sunset beach", RawValue: "sunset beach"},
		{DisplayName: "rocky cove", RawValue: "rocky cove"},
	}
	if !reflect.DeepEqual(beaches.Entries, wantEntries) {
		t.Errorf("Beaches entries = %+v, want %+v", beaches.Entries, wantEntries)
	}

	if len(doc.Warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", doc.Warnings)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	text := "# b\none\n# a\ntwo\n# b\nthree\nstray-less\n"

	first := Parse(text, ModeImage)
	second := Parse(text, ModeImage)

	if !reflect.DeepEqual(first.Sections, second.Sections) {
		t.Error("parsing the same text twice produced different structures")
	}
	if !reflect.DeepEqual(first.Warnings, second.Warnings) {
		t.Error("parsing the same text twice produced different warnings")
	}
}

func TestParseEntriesBeforeAnySection(t *testing.T) {
	text := "orphan one\norphan two\n# Section\nkept\n"

	doc := Parse(text, ModeImage)

	if len(doc.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %+v", len(doc.Warnings), doc.Warnings)
	}
	if doc.Warnings[0].Line != 1 || doc.Warnings[1].Line != 2 {
		t.Errorf("warning line numbers = %d, %d; want 1, 2", doc.Warnings[0].Line, doc.Warnings[1].Line)
	}

	// Dropped lines must not appear in any section.
	for _, s := range doc.Sections {
		for _, e := range s.Entries {
			if e.RawValue == "orphan one" || e.RawValue == "orphan two" {
				t.Errorf("orphan entry leaked into section %q", s.Name)
			}
		}
	}
	if doc.EntryCount() != 1 {
		t.Errorf("EntryCount() = %d, want 1", doc.EntryCount())
	}
}

func TestParseBlankLinesSkipped(t *testing.T) {
	doc := Parse("\n\n# A\n\n  \nentry\n\n", ModeImage)

	if len(doc.Warnings) != 0 {
		t.Errorf("blank lines produced warnings: %+v", doc.Warnings)
	}
	if got := doc.Section("A"); got == nil || len(got.Entries) != 1 {
		t.Errorf("expected section A with 1 entry, got %+v", got)
	}
}

func TestParseEmptySectionName(t *testing.T) {
	doc := Parse("#\nentry under empty name\n", ModeImage)

	s := doc.Section("")
	if s == nil {
		t.Fatal("empty-string section name should be a normal key")
	}
	if len(s.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(s.Entries))
	}
}

func TestParseHeaderAfterLeadingSpaces(t *testing.T) {
	doc := Parse("   # Indented\nentry\n", ModeImage)

	if doc.Section("Indented") == nil {
		t.Error("a line whose first non-space character is '#' should open a section")
	}
}

func TestImageModeDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantDisplay string
		wantRaw     string
	}{
		{
			name:        "inline marker",
			line:        "mountain.jpg # Mountain View",
			wantDisplay: "Mountain View",
			wantRaw:     "mountain.jpg # Mountain View",
		},
		{
			name:        "no marker",
			line:        "plain entry",
			wantDisplay: "plain entry",
			wantRaw:     "plain entry",
		},
		{
			name:        "marker with no text after",
			line:        "trailing #",
			wantDisplay: "",
			wantRaw:     "trailing #",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse("# S\n"+tt.line+"\n", ModeImage)
			entries := doc.Section("S").Entries
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			if entries[0].DisplayName != tt.wantDisplay {
				t.Errorf("DisplayName = %q, want %q", entries[0].DisplayName, tt.wantDisplay)
			}
			if entries[0].RawValue != tt.wantRaw {
				t.Errorf("RawValue = %q, want %q", entries[0].RawValue, tt.wantRaw)
			}
		})
	}
}

func TestVideoModeStripsAnnotations(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantDisplay string
		wantRaw     string
	}{
		{
			name:        "trailing annotation token",
			line:        "Paris night skyline tag#",
			wantDisplay: "Paris night skyline",
			wantRaw:     "Paris night skyline",
		},
		{
			name:        "annotation mid-line",
			line:        "one two# three",
			wantDisplay: "one three",
			wantRaw:     "one three",
		},
		{
			name:        "no annotations",
			line:        "just a phrase",
			wantDisplay: "just a phrase",
			wantRaw:     "just a phrase",
		},
		{
			name:        "every token annotated",
			line:        "a# b#",
			wantDisplay: "",
			wantRaw:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse("# S\n"+tt.line+"\n", ModeVideo)
			entries := doc.Section("S").Entries
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			if entries[0].DisplayName != tt.wantDisplay {
				t.Errorf("DisplayName = %q, want %q", entries[0].DisplayName, tt.wantDisplay)
			}
			if entries[0].RawValue != tt.wantRaw {
				t.Errorf("RawValue = %q, want %q", entries[0].RawValue, tt.wantRaw)
			}
		})
	}
}

func TestStripAnnotations(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Paris night skyline tag#", "Paris night skyline"},
		{"a  b   c", "a b c"},
		{"x# y# z", "z"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := stripAnnotations(tt.input); got != tt.want {
			t.Errorf("stripAnnotations(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
