// Package probecache persists probed durations in SQLite so repeated runs
// over the same rip tree skip ffprobe.
//
// Entries are keyed by absolute path, size and modification time; any change
// to the file invalidates its entry. The database uses WAL mode and retries
// briefly on SQLITE_BUSY so concurrent runs can share one cache file.
package probecache
