package gateway

import (
	"context"

	"github.com/warp/student-hotel/generic"
	"golang.org/x/sync/errgroup"
)

// MaxParallel bounds how many loads of one FanOut run at the same time.
const MaxParallel = 8

// FanOut runs independent loads in parallel, at most MaxParallel at once,
// and waits for all of them. The first failure cancels the context the
// others run under and is the error returned.
func FanOut(ctx context.Context, loads ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxParallel)
	for _, load := range loads {
		g.Go(func() error { return load(gctx) })
	}
	return g.Wait()
}

// Fetch returns a load that gets id from gw into dst. An empty id is a no-op.
func Fetch[T any](gw generic.Gateway[T], id string, dst *T) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if id == "" {
			return nil
		}
		rec, err := gw.Get(ctx, id)
		if err != nil {
			return err
		}
		*dst = rec
		return nil
	}
}
