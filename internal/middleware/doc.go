// Package middleware provides HTTP middleware for request logging,
// response compression, and Prometheus instrumentation.
package middleware
