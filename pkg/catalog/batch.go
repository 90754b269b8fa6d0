package catalog

import (
	"context"
	"sync"
)

// FetchPokemonBatch resolves a page of identifiers into enriched records
// using a bounded worker pool, preserving the input order. A failed record
// fetch is fatal for the batch: the first error cancels the remaining work
// and is returned.
func (c *Catalog) FetchPokemonBatch(ctx context.Context, ids []int) ([]*Pokemon, error) {
	if len(ids) == 0 {
		return []*Pokemon{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	records := make([]*Pokemon, len(ids))

	jobs := make(chan int, len(ids))
	for i := range ids {
		jobs <- i
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	workers := c.config.MaxConcurrency
	if workers > len(ids) {
		workers = len(ids)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				p, err := c.FetchPokemon(ctx, ids[i])
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				records[i] = p
			}
		}()
	}

	wg.Wait()

	if firstErr != nil {
		c.logger.Warn().
			Err(firstErr).
			Int("requested", len(ids)).
			Msg("Batch record fetch failed")
		return nil, firstErr
	}

	return records, nil
}
