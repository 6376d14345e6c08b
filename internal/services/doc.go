// Package services defines shared utilities consumed by every stage of a
// renaming run.
//
// Key responsibilities:
//   - Context helpers that stamp the run identifier and current stage for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (configuration, validation, external tool) and map them to CLI exit
//     codes.
//
// Use these helpers when wiring new stage logic so error reporting stays
// uniform across discovery, planning and execution.
package services
