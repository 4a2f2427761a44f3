// Package ranking computes the current-month activity ranking across the
// whole port directory.
package ranking

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/clock"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/ports"
)

// PortCounter reports the number of port calls for one port in one month.
type PortCounter interface {
	CountPort(ctx context.Context, code string, year, month int) (int, error)
}

// RankedPort is one row of the global ranking.
type RankedPort struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ShipCount int    `json:"shipCount"`
}

// Ranker fans a count query out over the directory and ranks the results.
type Ranker struct {
	counter PortCounter
	clock   clock.Clock
	logger  *zap.Logger
}

// New builds a Ranker.
func New(counter PortCounter, clk clock.Clock, logger *zap.Logger) *Ranker {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{counter: counter, clock: clk, logger: logger}
}

// Global counts the current calendar month's activity for every port in the
// directory, all ports in parallel. The count payload is tiny, so the
// fan-out is unthrottled. A port whose count fails scores zero; zero-count
// ports are dropped and the rest sorted descending, directory order
// breaking ties.
func (r *Ranker) Global(ctx context.Context, dir ports.Directory) []RankedPort {
	now := r.clock.Now()
	year, month := now.Year(), int(now.Month())

	r.logger.Info("global ranking started",
		zap.Int("ports", len(dir)),
		zap.Int("year", year),
		zap.Int("month", month),
	)

	counts := make([]int, len(dir))
	var wg sync.WaitGroup
	for i, p := range dir {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			n, err := r.counter.CountPort(ctx, code, year, month)
			if err != nil {
				r.logger.Debug("port count failed, scoring zero",
					zap.String("port", code),
					zap.Error(err),
				)
				return
			}
			counts[i] = n
		}(i, p.Code)
	}
	wg.Wait()

	ranked := make([]RankedPort, 0, len(dir))
	for i, p := range dir {
		if counts[i] <= 0 {
			continue
		}
		ranked = append(ranked, RankedPort{Code: p.Code, Name: p.Name, ShipCount: counts[i]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ShipCount > ranked[j].ShipCount
	})

	r.logger.Info("global ranking complete", zap.Int("active_ports", len(ranked)))
	return ranked
}
