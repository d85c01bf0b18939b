// Package fetcher resolves candidate URLs against their mirror list.
//
// Image candidates use verified retrieval: each mirror is tried once, in
// order, and a response only counts if it decodes as an image. Failures
// are confined to this boundary as result values; only the final outcome
// (first verified success, or exhaustion) is observable to callers.
// Video candidates are link-only and never touch the network.
package fetcher
