// Package logging builds the slog loggers used by the renamer.
//
// Console output is a compact key=value line per record, JSON output is one
// object per line. Both go to stderr by default so that stdout stays free for
// the plan report or the shell script. Context helpers tag records with the
// run identifier and the current stage.
package logging
