// Package handlers provides HTTP request handlers for the manifest
// gallery API.
//
// It includes handlers for:
//   - Template configuration upload and inspection
//   - Gallery building with unchanged-manifest caching
//   - Verified image preview serving
//   - Health checks and version information
//
// The handlers also own the session state: the active template set, the
// last rendered gallery, and the preview store.
package handlers
