// Package cache provides the in-memory image cache.
//
// LRU is a byte-budgeted least-recently-used map. Every entry carries a byte
// footprint; the sum of retained footprints never exceeds the capacity.
//
// Key properties:
//   - Get on a hit refreshes recency
//   - Put is first-writer-wins: an existing entry is never replaced
//   - An entry larger than the whole capacity is inserted and immediately evicted
//   - One mutex guards the map, the recency list and the size counter
//   - Optional memory accounting through resource.Controller
package cache
