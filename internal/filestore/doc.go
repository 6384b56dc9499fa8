// Package filestore persists shapes and small documents on the local disk.
//
// Shapes of one kind live in a single file named after the kind inside the
// store directory: Rectangle.json, Square.json, or Rectangle.csv and
// Square.csv for the CSV variant. Shape files are replaced atomically
// (pending temp file, fsync, rename), so a reader or the data directory
// watcher never observes a half-written list.
//
// The package also provides the plain text and JSON helpers used by the
// command line tool: reading a file to a writer, writing or appending text,
// saving and loading a JSON document, and growing a JSON list of items.
package filestore
