// Package resolver turns manifest entries into concrete candidate URLs
// by substituting each entry's value into the selected base-URL
// templates. It performs no I/O.
package resolver
