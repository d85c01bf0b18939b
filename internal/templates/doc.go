// Package templates loads and validates the base-URL template registry:
// a TOML configuration unit with independent image and video mappings of
// label -> template string, each containing exactly one "{}" placeholder.
//
// The registry is pure data. Validation happens once at load time and a
// loaded Set is never mutated, so it can be shared across every candidate
// in a session without locking.
package templates
