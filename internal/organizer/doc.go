// Package organizer applies a plan to the output root.
//
// Execute holds an exclusive lock file in the output root for the duration
// of the run, refuses to start when any destination already exists, then
// moves or copies each title in plan order. The first failure stops the run;
// entries completed before it are reported so the caller can tell the user
// exactly what changed.
package organizer
