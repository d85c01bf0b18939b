// Package gallery orchestrates the manifest pipeline: parse the text,
// resolve entries into candidate URLs, fetch with mirror fallback, and
// assemble a render model with sections sorted alphabetically and
// entries in manifest encounter order.
//
// The package also provides the session-scoped preview store that holds
// verified image payloads between building a gallery and serving its
// previews.
package gallery
