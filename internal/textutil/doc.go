// Package textutil provides string helpers shared by the selection engine.
//
// The primary use cases are:
//   - Natural ordering of disc and title names, so "title_2" sorts before
//     "title_10"
//   - Translating shell-style glob patterns into anchored regular expressions
//     whose "*" wildcard spans path separators
package textutil
