// Package naming turns a discovered title's relative path into its
// destination name.
//
// A Matcher applies the user's input regular expression to the path and
// exposes its capture groups by position and by name. A Template parses a
// brace-delimited output format ("S{season}E{offset_index:02d}{extension}"),
// checks every field it references against the Matcher's groups before any
// file is touched, and renders destination paths relative to the output
// root.
package naming
