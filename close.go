package pixload

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Close stops the engine: queued requests are dropped, decodes already
// running finish and deliver, and background goroutines exit before Close
// returns. Owner run loops must keep running (or be stopped) until then,
// since finishing decodes still post to them.
//
// Close is idempotent; LoadImage calls after Close are ignored.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	e.closeOnce.Do(func() {
		e.closed.Store(true)

		dropped := e.queue.Close()
		e.cancel()

		err := e.group.Wait()
		if errors.Is(err, context.Canceled) {
			err = nil
		}

		var g errgroup.Group
		g.Go(func() error {
			e.pool.Close()
			return nil
		})
		if e.watcher != nil {
			g.Go(e.watcher.Close)
		}
		e.closeErr = errors.Join(err, g.Wait())

		e.logger.LogClose(context.Background(), dropped, e.closeErr)
	})
	return e.closeErr
}
