// Package explorer combines registry fetches with the estimators and rankers to answer
// questions about a single model or a pool of them.
package explorer

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/sammcj/hfscout/catalog"
	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/huggingface"
	"github.com/sammcj/hfscout/logging"
	"github.com/sammcj/hfscout/vramestimator"
)

const DefaultConcurrency = 4

// Fetcher is the part of the registry client the explorer needs
type Fetcher interface {
	FetchBundle(ctx context.Context, modelID string) (*huggingface.Bundle, error)
}

// Options tunes an Explorer. Zero values select the defaults.
type Options struct {
	Concurrency int
	Estimator   vramestimator.Estimator
	PoolIDs     []string
	Events      *core.EventBus // receives pool loading progress when set
}

type Explorer struct {
	fetcher     Fetcher
	estimator   vramestimator.Estimator
	concurrency int
	poolIDs     []string
	events      *core.EventBus

	mu   sync.Mutex
	pool []core.ModelRecord
}

// New creates an explorer backed by fetcher
func New(fetcher Fetcher, opts Options) *Explorer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Estimator == (vramestimator.Estimator{}) {
		opts.Estimator = vramestimator.DefaultEstimator
	}
	if len(opts.PoolIDs) == 0 {
		opts.PoolIDs = catalog.IDs()
	}

	return &Explorer{
		fetcher:     fetcher,
		estimator:   opts.Estimator,
		concurrency: opts.Concurrency,
		poolIDs:     opts.PoolIDs,
		events:      opts.Events,
	}
}

// Inspect fetches a model and builds its record
func (e *Explorer) Inspect(ctx context.Context, modelID string) (core.ModelRecord, error) {
	b, err := e.fetcher.FetchBundle(ctx, modelID)
	if err != nil {
		return core.ModelRecord{}, err
	}
	return enrichWith(e.estimator, b), nil
}

// LoadPool fetches ids concurrently. Models that fail to load are logged and skipped, and
// those without a config receive FallbackVRAM. The result follows the order of ids.
func (e *Explorer) LoadPool(ctx context.Context, ids []string) ([]core.ModelRecord, error) {
	slots := make([]*core.ModelRecord, len(ids))
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := e.Inspect(gctx, id)
			if err != nil {
				logging.ErrorLogger.Printf("failed to load %s: %v\n", id, err)
				e.events.Emit(core.Event{Type: core.EventPoolModelFailed, ModelID: id, Err: err.Error(), Done: int(done.Add(1)), Total: len(ids)})
				return nil
			}
			if !rec.VRAM.Known() {
				rec.VRAM = FallbackVRAM
			}
			slots[i] = &rec
			e.events.Emit(core.Event{Type: core.EventPoolModelLoaded, ModelID: id, Done: int(done.Add(1)), Total: len(ids)})
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool := make([]core.ModelRecord, 0, len(ids))
	for _, rec := range slots {
		if rec != nil {
			pool = append(pool, *rec)
		}
	}
	logging.InfoLogger.Printf("loaded %d of %d pool models\n", len(pool), len(ids))
	e.events.Emit(core.Event{Type: core.EventPoolLoaded, Done: len(pool), Total: len(ids)})
	return pool, nil
}

// Pool returns the curated pool, loading it on first use. An empty load is not cached so a
// later call can retry.
func (e *Explorer) Pool(ctx context.Context) ([]core.ModelRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pool != nil {
		return e.pool, nil
	}
	pool, err := e.LoadPool(ctx, e.poolIDs)
	if err != nil {
		return nil, err
	}
	if len(pool) > 0 {
		e.pool = pool
	}
	return pool, nil
}
