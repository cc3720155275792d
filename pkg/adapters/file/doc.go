// Package file serves chain documents from a directory and persists
// sessions as JSON files.
package file
