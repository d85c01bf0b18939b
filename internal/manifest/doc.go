// Package manifest parses the line-oriented manifest format into ordered
// sections of named entries and fingerprints manifest content for change
// detection.
//
// The format is deliberately simple: a line starting with '#' names a
// section, every other non-blank line is an entry in the most recently
// named section. Two parse modes exist because image entries carry the
// full line as their value while video entries strip inline "#"
// annotations and use the remainder as a search phrase.
package manifest
