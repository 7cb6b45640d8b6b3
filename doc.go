// Package pixload loads images into display targets asynchronously.
//
// Given a storage path and a display target, pixload applies cached pixels
// right away, on the calling goroutine, when it has them. Otherwise it queues a background decode,
// downsamples the image to the size the target will show it at, caches the
// result and hands it back on the target's owner goroutine, but only if the
// target still wants that same image.
//
// # Quick Start
//
//	engine, _ := pixload.New(pixload.WithThreadCount(4))
//	defer engine.Close()
//
//	loop := display.NewLoop(64)
//	go loop.Run(ctx) // the owner goroutine
//
//	geom := display.NewGeometry(display.Size{}, display.Size{}, display.Size{Width: 1080, Height: 1920})
//	target := display.NewTarget("avatar", loop, geom, func(path string, img *pixel.Image) {
//	    // show img; runs on the loop goroutine
//	})
//	engine.LoadImage("photos/cat.jpg", target)
//
// # Staleness
//
// LoadImage tags the target with the requested path. A result is applied only
// if the tag still matches when the owner goroutine runs the delivery, so a
// target recycled for another path never shows an outdated image.
//
// LoadImage is meant to be called from the target's owner goroutine. Cache
// hits are applied before it returns, so the owner never waits on its own
// run loop.
//
// # Ordering
//
// Requests wait in a queue until a worker is free. With LIFO (the default)
// the most recent request is served first, which favors what is on screen
// now in a fast-scrolling list. FIFO serves requests in arrival order.
//
// # Memory
//
// Decoded images are kept in an LRU cache whose byte budget defaults to one
// quarter of the Go memory limit (GOMEMLIMIT) or, without one, of physical
// memory. Concurrent decodes of the same path keep the first result.
//
// # Sources
//
// Images are read through source.Store: the local filesystem (default),
// memory, Amazon S3 (source/s3) or MinIO (source/minio). source.Decompressing
// adds transparent .zst, .lz4 and .gz support. With WithInvalidateOnChange,
// local files are watched and their cache entries dropped when they change.
package pixload
