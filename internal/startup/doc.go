// Package startup handles application configuration loading from
// environment variables, build information, and structured startup and
// shutdown logging.
package startup
