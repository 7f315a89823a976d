// internal/prefetch/prefetch.go - Bulk tile prefetching
package prefetch

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/danielsivyer4567/parcelmeter/internal"
	"github.com/danielsivyer4567/parcelmeter/internal/store"
	"github.com/danielsivyer4567/parcelmeter/internal/tile"
)

// ProgressReporter receives prefetch progress updates
type ProgressReporter interface {
	Start(total int64)
	Increment()
	Finish()
}

// Processor fetches tile ranges into a local store with a bounded worker
// pool. Unlike the interactive viewport loader, prefetching caps its
// concurrency: it walks whole zoom ranges and would otherwise flood the
// server.
type Processor struct {
	fetcher     tile.Fetcher
	store       *store.Store
	concurrency int
	reporter    ProgressReporter
}

// NewProcessor creates a prefetch processor
func NewProcessor(fetcher tile.Fetcher, st *store.Store, concurrency int, reporter ProgressReporter) *Processor {
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Processor{
		fetcher:     fetcher,
		store:       st,
		concurrency: concurrency,
		reporter:    reporter,
	}
}

// Run fetches every request and stores the raw tile bodies. Individual
// tile failures are logged and counted, never fatal.
func (p *Processor) Run(ctx context.Context, requests []*tile.Request) (*internal.PrefetchStats, error) {
	stats := &internal.PrefetchStats{
		TotalTiles: int64(len(requests)),
		StartTime:  time.Now(),
	}

	if p.reporter != nil {
		p.reporter.Start(stats.TotalTiles)
	}

	workChan := make(chan *tile.Request, len(requests))
	for _, req := range requests {
		workChan <- req
	}
	close(workChan)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range workChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				p.fetchOne(ctx, req, stats, &mu)

				if p.reporter != nil {
					p.reporter.Increment()
				}
			}
		}()
	}

	wg.Wait()
	stats.EndTime = time.Now()

	if p.reporter != nil {
		p.reporter.Finish()
	}

	return stats, ctx.Err()
}

// fetchOne fetches and stores a single tile, updating stats under the lock
func (p *Processor) fetchOne(ctx context.Context, req *tile.Request, stats *internal.PrefetchStats, mu *sync.Mutex) {
	response, err := p.fetcher.Fetch(ctx, req)
	if err != nil {
		log.Warnf("prefetch: tile %s failed: %v", req.Key, err)
		mu.Lock()
		stats.FailedTiles++
		mu.Unlock()
		return
	}

	if err := p.store.Put(req.Key, response.Data); err != nil {
		log.Warnf("prefetch: tile %s store failed: %v", req.Key, err)
		mu.Lock()
		stats.FailedTiles++
		mu.Unlock()
		return
	}

	mu.Lock()
	stats.FetchedTiles++
	if len(response.Features) == 0 {
		stats.EmptyTiles++
	}
	mu.Unlock()
}
