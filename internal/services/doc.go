// Package services defines shared utilities consumed by the pipeline stages and
// their external tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, media item IDs, and stage names for
//     logging and history.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified (fatal configuration, external tool, skipped entry, per-item)
//     without string matching.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
