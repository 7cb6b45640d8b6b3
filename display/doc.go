// Package display models the consumers of decoded images.
//
// A Target is a display surface (a widget, a list cell, a terminal pane) that
// images are loaded into. It carries three things:
//
//   - a tag: the path most recently requested for it, used to reject stale results
//   - a Runner: the owner goroutine on which results must be applied
//   - a Layout: the geometry a SizeOracle consults to pick a decode size
//
// Targets may be reused for unrelated requests (for example cells recycled
// by a scrolling list). Results that arrive for a path the target no longer
// wants are discarded on the owner goroutine.
package display
