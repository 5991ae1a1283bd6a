package payroll

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// runGroup coalesces concurrent runs for the same key into one execution.
// The execution gets its own context that is cancelled only once every
// caller waiting on it has gone away, so one caller hanging up never fails
// the others.
type runGroup struct {
	sf singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func (g *runGroup) join(ctx context.Context, key string) *flight {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.flights == nil {
		g.flights = make(map[string]*flight)
	}
	f, ok := g.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		g.flights[key] = f
	}
	f.waiters++
	return f
}

func (g *runGroup) leave(key string, f *flight) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if g.flights[key] == f {
		delete(g.flights, key)
	}
}

// Do runs fn once per key for all concurrent callers. Each caller stops
// waiting when its own ctx is done. shared reports whether the result was
// handed to more than one caller.
func (g *runGroup) Do(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (v interface{}, shared bool, err error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		f := g.join(ctx, key)
		ch := g.sf.DoChan(key, func() (interface{}, error) {
			return fn(f.ctx)
		})

		select {
		case res := <-ch:
			g.leave(key, f)
			// An execution abandoned by its own callers can still be picked
			// up by a late joiner; start a fresh one for it.
			if errors.Is(res.Err, context.Canceled) && ctx.Err() == nil {
				continue
			}
			return res.Val, res.Shared, res.Err
		case <-ctx.Done():
			g.leave(key, f)
			return nil, false, ctx.Err()
		}
	}
}
