// Package deps checks that external executables are available on PATH.
package deps
