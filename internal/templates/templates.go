package templates

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"manifest-gallery/internal/manifest"

	"github.com/pelletier/go-toml/v2"
)

// Placeholder is the single substitution point every template string
// must contain exactly once.
const Placeholder = "{}"

// Template is one resolved label -> pattern pair from a Set.
type Template struct {
	Label   string `json:"label"`
	Pattern string `json:"pattern"`
}

// Fill substitutes value into the template's placeholder.
func (t Template) Fill(value string) string {
	return strings.Replace(t.Pattern, Placeholder, value, 1)
}

// Set is the declarative template configuration unit: two independent
// label -> template mappings, one per content kind. It is read-only
// after a successful Load.
type Set struct {
	Image map[string]string `toml:"image_urls"`
	Video map[string]string `toml:"video_urls"`
}

// Load parses and validates a TOML configuration unit. A Set that fails
// validation is rejected wholesale: a half-valid template registry would
// produce confusing partial galleries.
func Load(data []byte) (*Set, error) {
	var s Set
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse template configuration: %w", err)
	}
	if len(s.Image) == 0 && len(s.Video) == 0 {
		return nil, fmt.Errorf("template configuration defines no image_urls or video_urls")
	}
	if err := validate("image_urls", s.Image); err != nil {
		return nil, err
	}
	if err := validate("video_urls", s.Video); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and Loads a TOML configuration unit from disk.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template configuration %s: %w", path, err)
	}
	return Load(data)
}

func validate(table string, m map[string]string) error {
	for label, pattern := range m {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("%s: empty label", table)
		}
		if n := strings.Count(pattern, Placeholder); n != 1 {
			return fmt.Errorf("%s.%s: template must contain exactly one %q placeholder, found %d", table, label, Placeholder, n)
		}
		probe := strings.Replace(pattern, Placeholder, "probe", 1)
		if _, err := url.Parse(probe); err != nil {
			return fmt.Errorf("%s.%s: template is not a valid URL: %w", table, label, err)
		}
	}
	return nil
}

// forMode returns the mapping that serves the given parse mode.
func (s *Set) forMode(mode manifest.Mode) map[string]string {
	if mode == manifest.ModeVideo {
		return s.Video
	}
	return s.Image
}

// Labels returns the labels available for a mode, sorted for stable
// presentation.
func (s *Set) Labels(mode manifest.Mode) []string {
	m := s.forMode(mode)
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Select resolves an ordered list of labels against the mapping for the
// given mode. Order is preserved exactly as supplied by the caller; the
// selection order is also the mirror fallback order downstream.
func (s *Set) Select(mode manifest.Mode, labels []string) ([]Template, error) {
	m := s.forMode(mode)
	selected := make([]Template, 0, len(labels))
	for _, label := range labels {
		pattern, ok := m[label]
		if !ok {
			return nil, fmt.Errorf("no %s template with label %q", mode, label)
		}
		selected = append(selected, Template{Label: label, Pattern: pattern})
	}
	return selected, nil
}
