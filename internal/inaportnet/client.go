// Package inaportnet retrieves shipping-activity data from the Inaportnet
// monitoring service: chunked month listings, per-call detail pages and
// lightweight activity counts.
package inaportnet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/fetch"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/pacing"
)

// DefaultBaseURL is the production monitoring endpoint.
const DefaultBaseURL = "https://monitoring-inaportnet.dephub.go.id"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Config controls the Inaportnet client.
type Config struct {
	BaseURL   string
	UserAgent string
	// ChunkSize is the page size of list requests, default 1000.
	ChunkSize int
	// ChunkDelay spaces successive chunk requests within a month, default 200ms.
	ChunkDelay time.Duration
	// MonthDelay spaces successive months within a range, default 500ms.
	MonthDelay time.Duration
}

// Client issues list, count and detail requests against Inaportnet.
type Client struct {
	cfg    Config
	fetch  *fetch.Client
	logger *zap.Logger
}

// NewClient builds a Client on top of a retrying fetch client.
func NewClient(f *fetch.Client, cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkDelay == 0 {
		cfg.ChunkDelay = 200 * time.Millisecond
	}
	if cfg.MonthDelay == 0 {
		cfg.MonthDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, fetch: f, logger: logger}
}

// RangeResult is the aggregate of every month in a window.
type RangeResult struct {
	Data  []ActivityRecord `json:"data"`
	Total int              `json:"total"`
}

type listPayload struct {
	Data         []ActivityRecord `json:"data"`
	RecordsTotal int              `json:"recordsTotal"`
}

// FetchRange validates the window, fetches every month in chronological
// order and concatenates the rows. A month that fails is logged and skipped;
// the range as a whole still succeeds.
func (c *Client) FetchRange(ctx context.Context, w FetchWindow) (RangeResult, error) {
	chunks, err := MonthsBetween(w)
	if err != nil {
		return RangeResult{}, err
	}

	pacer := pacing.New(c.cfg.MonthDelay)
	all := make([]ActivityRecord, 0)
	for _, chunk := range chunks {
		if err := pacer.Wait(ctx); err != nil {
			return RangeResult{}, err
		}
		rows, err := c.FetchMonth(ctx, chunk, w.Search)
		if err != nil {
			if ctx.Err() != nil {
				return RangeResult{}, err
			}
			c.logger.Warn("month fetch failed, skipping",
				zap.String("port", chunk.Port),
				zap.Int("year", chunk.Year),
				zap.Int("month", chunk.Month),
				zap.Error(err),
			)
			continue
		}
		all = append(all, rows...)
	}

	c.logger.Info("range fetch complete",
		zap.String("port", w.Port),
		zap.Int("months", len(chunks)),
		zap.Int("rows", len(all)),
	)
	return RangeResult{Data: all, Total: len(all)}, nil
}

// FetchMonth pages through one month's list in fixed-size chunks. The loop
// ends once the reported total is reached or a page comes back empty. A
// failure HTTP status abandons the month and returns what was accumulated;
// a transport failure surfaces as an error alongside the partial rows so the
// caller decides the month's fate.
func (c *Client) FetchMonth(ctx context.Context, chunk MonthChunk, search string) ([]ActivityRecord, error) {
	pacer := pacing.New(c.cfg.ChunkDelay)
	var rows []ActivityRecord
	for start := 0; ; start += c.cfg.ChunkSize {
		if err := pacer.Wait(ctx); err != nil {
			return rows, err
		}

		payload, status, err := c.listPage(ctx, chunk, start, c.cfg.ChunkSize, search)
		if err != nil {
			return rows, err
		}
		if status != http.StatusOK {
			c.logger.Warn("list chunk rejected, abandoning month",
				zap.String("port", chunk.Port),
				zap.Int("year", chunk.Year),
				zap.Int("month", chunk.Month),
				zap.Int("status", status),
			)
			return rows, nil
		}

		rows = append(rows, payload.Data...)
		if start+c.cfg.ChunkSize >= payload.RecordsTotal || len(payload.Data) == 0 {
			return rows, nil
		}
	}
}

// CountMonth returns the total number of port calls for one port and month,
// via a length=1 request that only reads recordsTotal.
func (c *Client) CountMonth(ctx context.Context, port string, category Category, year, month int) (int, error) {
	payload, status, err := c.listPage(ctx, MonthChunk{Port: port, Category: category, Year: year, Month: month}, 0, 1, "")
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, &fetch.UpstreamError{URL: c.listURL(MonthChunk{Port: port, Category: category, Year: year, Month: month}), StatusCode: status}
	}
	return payload.RecordsTotal, nil
}

func (c *Client) listPage(ctx context.Context, chunk MonthChunk, start, length int, search string) (listPayload, int, error) {
	resp, err := c.fetch.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		u := c.listURL(chunk)
		q := url.Values{}
		q.Set("draw", "1")
		q.Set("start", strconv.Itoa(start))
		q.Set("length", strconv.Itoa(length))
		q.Set("search[value]", search)
		q.Set("search[regex]", "false")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("build list request: %w", err)
		}
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		req.Header.Set("Connection", "keep-alive")
		return req, nil
	})
	if err != nil {
		return listPayload{}, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return listPayload{}, resp.StatusCode, nil
	}

	var payload listPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return listPayload{}, 0, fmt.Errorf("decode list page: %w", err)
	}
	return payload, resp.StatusCode, nil
}

func (c *Client) listURL(chunk MonthChunk) string {
	return fmt.Sprintf("%s/monitoring/byPort/list/%s/%s/%d/%02d",
		c.cfg.BaseURL,
		url.PathEscape(chunk.Port),
		chunk.Category,
		chunk.Year,
		chunk.Month,
	)
}
