package ditkapel

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/pacing"
)

// BatchLookup resolves a list of vessel names, resuming after the first
// `checkpoint` names. Names are processed in fixed-size groups: lookups
// inside a group run concurrently, groups are paced apart to spare the
// registry. A name that fails after retries contributes zero rows; it is
// logged with its absolute position so callers can compute a new checkpoint.
func (c *Client) BatchLookup(ctx context.Context, names []string, checkpoint int) (LookupResult, error) {
	if checkpoint < 0 {
		checkpoint = 0
	}
	if checkpoint > len(names) {
		checkpoint = len(names)
	}
	pending := names[checkpoint:]

	c.logger.Info("batch lookup started",
		zap.Int("names", len(pending)),
		zap.Int("checkpoint", checkpoint),
	)

	pacer := pacing.New(c.cfg.GroupDelay)
	rows := make([]VesselRecord, 0)
	for start := 0; start < len(pending); start += c.cfg.GroupSize {
		end := start + c.cfg.GroupSize
		if end > len(pending) {
			end = len(pending)
		}
		if err := pacer.Wait(ctx); err != nil {
			return LookupResult{}, err
		}

		group := pending[start:end]
		results := make([][]VesselRecord, len(group))
		var wg sync.WaitGroup
		for i, name := range group {
			wg.Add(1)
			go func(i int, name string) {
				defer wg.Done()
				recs, err := c.lookup(ctx, name, c.cfg.BatchLimit)
				if err != nil {
					c.logger.Warn("vessel lookup failed, dropping name",
						zap.String("name", name),
						zap.Int("position", checkpoint+start+i),
						zap.Error(err),
					)
					return
				}
				results[i] = recs
			}(i, name)
		}
		wg.Wait()

		for _, recs := range results {
			rows = append(rows, recs...)
		}

		c.logger.Debug("batch group complete",
			zap.Int("done", end),
			zap.Int("total", len(pending)),
		)
	}

	return LookupResult{Headers: Headers(), Data: rows}, nil
}
