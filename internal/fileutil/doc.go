// Package fileutil moves and copies media files without clobbering existing
// destinations. Copies are verified by size and SHA-256 before they count.
package fileutil
