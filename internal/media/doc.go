// Package media verifies fetched payloads as decodable images and
// prepares size-constrained preview bytes for inline display.
//
// Decoding doubles as verification: a mirror that answers 200 with an
// HTML error page fails here and the fetcher moves on to the next one.
package media
