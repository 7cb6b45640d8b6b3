// Package mmap maps image files read-only into memory.
//
// Decoders read a source twice (bounds probe, then full decode). Mapping the
// file lets both passes read through the page cache without copying the file
// into the Go heap. Mappings are advised for sequential access since codecs
// stream from the start of the file.
package mmap
