// Package main hosts the renamer CLI.
//
// The root command takes an input root of ripped titles, probes their
// runtimes, picks the episodes, and either prints the resulting plan (a table
// on a terminal, a mkdir/mv shell script otherwise) or applies it to an output
// root. Configuration comes from TOML with flags layered on top; the config
// subcommands scaffold and check that file.
package main
