// Package ffprobe runs ffprobe and extracts container durations.
//
// Prober is the entry point used during discovery: one ffprobe process per
// file, bounded by a per-call timeout, with the container-level
// format.duration as the result. Probe failures carry the
// services.ErrExternalTool marker so callers can record them per file.
package ffprobe
