package production

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RecomputeBatch recomputes independent sections in parallel. The result
// keeps the input order.
func RecomputeBatch(ctx context.Context, sections []Section) ([]Section, error) {
	out := make([]Section, len(sections))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range sections {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Recompute(sections[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
