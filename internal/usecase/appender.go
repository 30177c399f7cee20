package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/panjf2000/ants/v2"
)

const defaultBatchSize = 500

// chunkAppender writes a row set to the sink in batches. With more than one
// worker the batches are submitted to an ants pool; the first sink failure
// cancels the batches that have not started yet.
type chunkAppender struct {
	sink      warehouse.Sink
	batchSize int
	workers   int
}

func (a chunkAppender) append(ctx context.Context, table string, rows dataset.RowSet) (int, error) {
	if rows.Len() == 0 {
		return 0, nil
	}
	batchSize := a.batchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	chunks := rows.Chunk(batchSize)

	if a.workers <= 1 || len(chunks) == 1 {
		total := 0
		for _, chunk := range chunks {
			n, err := a.sink.Append(ctx, table, chunk)
			if err != nil {
				return total, fmt.Errorf("append %s: %w", table, err)
			}
			total += n
		}
		return total, nil
	}

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	pool, err := ants.NewPool(min(a.workers, len(chunks)))
	if err != nil {
		return 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		appended atomic.Int64
		firstErr error
		errOnce  sync.Once
		workers  sync.WaitGroup
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for _, chunk := range chunks {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if ctx.Err() != nil {
				return
			}
			n, err := a.sink.Append(ctx, table, chunk)
			if err != nil {
				fail(fmt.Errorf("append %s: %w", table, err))
				return
			}
			appended.Add(int64(n))
		}); err != nil {
			workers.Done()
			fail(fmt.Errorf("submit chunk to worker pool: %w", err))
			break
		}
	}

	workers.Wait()
	if firstErr == nil && parent.Err() != nil {
		return int(appended.Load()), fmt.Errorf("append %s: %w", table, parent.Err())
	}
	return int(appended.Load()), firstErr
}
