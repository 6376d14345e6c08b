// Package preflight verifies filesystem paths and external tools before a
// run touches anything.
//
// The CLI runs these checks after loading configuration: the input root must
// be readable, the output root (when executing) must be creatable and
// writable, and ffprobe must be on PATH. A failed check aborts the run with
// a message naming the path or binary.
package preflight
