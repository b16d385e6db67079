// Package history keeps a local SQLite record of pipeline runs and the
// outcome of every item they processed. It backs the `history` command and
// is written to by the pipeline when a recorder is configured.
package history
