// Package source provides the storage abstraction images are read from.
//
// A Store resolves a path to a Blob, a read-only handle with random access.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped
//   - MemoryStore: in-memory, for tests and embedded assets
//   - Decompressing: transparent .zst / .lz4 / .gz decompression over another Store
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible services
//
// Watcher reports changes to files opened through a LocalStore so cached
// images can be invalidated.
package source
