// Package discovery finds candidate video files under an input root and
// probes their durations.
//
// Walk lists regular files recursively, skipping hidden entries and keeping
// only configured container extensions (compared case-insensitively).
// ProbeAll measures every candidate with a bounded worker pool and returns
// only after all probes finished: classification needs the whole set.
package discovery
