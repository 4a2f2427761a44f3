package inaportnet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/fetch"
)

func newTestClient(t *testing.T, upstream *httptest.Server) *Client {
	t.Helper()
	f := fetch.New(upstream.Client(), fetch.Config{
		Service: "inaportnet",
		Sleep:   func(context.Context, time.Duration) error { return nil },
	})
	return NewClient(f, Config{
		BaseURL:    upstream.URL,
		ChunkSize:  1000,
		ChunkDelay: time.Nanosecond,
		MonthDelay: time.Nanosecond,
	}, zap.NewNop())
}

func writeListPage(w http.ResponseWriter, rows []ActivityRecord, total int) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":         rows,
		"recordsTotal": total,
	})
}

func makeRows(prefix string, n int) []ActivityRecord {
	rows := make([]ActivityRecord, n)
	for i := range rows {
		rows[i] = ActivityRecord{"Nomor PKK": fmt.Sprintf("%s-%04d", prefix, i)}
	}
	return rows
}

func TestFetchMonth_PaginatesUntilTotal(t *testing.T) {
	t.Parallel()

	var offsets, lengths []int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		length, _ := strconv.Atoi(r.URL.Query().Get("length"))
		offsets = append(offsets, start)
		lengths = append(lengths, length)

		remaining := 2500 - start
		if remaining > length {
			remaining = length
		}
		writeListPage(w, makeRows(fmt.Sprintf("p%d", start), remaining), 2500)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	rows, err := client.FetchMonth(context.Background(), MonthChunk{
		Port: "IDMAK", Category: CategoryDomestic, Year: 2025, Month: 2,
	}, "")
	require.NoError(t, err)

	require.Equal(t, []int{0, 1000, 2000}, offsets)
	require.Equal(t, []int{1000, 1000, 1000}, lengths)
	require.Len(t, rows, 2500)
	require.Equal(t, "p0-0000", rows[0].NomorPKK())
	require.Equal(t, "p2000-0499", rows[2499].NomorPKK())
}

func TestFetchMonth_EmptyPageStopsLoop(t *testing.T) {
	t.Parallel()

	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// Upstream claims more rows than it ever delivers.
		writeListPage(w, nil, 5000)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	rows, err := client.FetchMonth(context.Background(), MonthChunk{
		Port: "IDMAK", Category: CategoryDomestic, Year: 2025, Month: 2,
	}, "")
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Equal(t, 1, calls)
}

func TestFetchMonth_StatusFailureKeepsAccumulatedRows(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		if start > 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeListPage(w, makeRows("a", 1000), 2500)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	rows, err := client.FetchMonth(context.Background(), MonthChunk{
		Port: "IDMAK", Category: CategoryDomestic, Year: 2025, Month: 2,
	}, "")
	require.NoError(t, err)
	require.Len(t, rows, 1000)
}

func TestFetchMonth_CarriesSearchTerm(t *testing.T) {
	t.Parallel()

	var gotSearch, gotRegex string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search[value]")
		gotRegex = r.URL.Query().Get("search[regex]")
		writeListPage(w, makeRows("s", 2), 2)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	rows, err := client.FetchMonth(context.Background(), MonthChunk{
		Port: "IDMAK", Category: CategoryDomestic, Year: 2025, Month: 2,
	}, "nggapulu")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "nggapulu", gotSearch)
	require.Equal(t, "false", gotRegex)
}

func TestFetchRange_SkipsFailedMonth(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Path ends with /{year}/{month}.
		if r.URL.Path[len(r.URL.Path)-2:] == "12" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeListPage(w, makeRows(r.URL.Path, 3), 3)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	result, err := client.FetchRange(context.Background(), FetchWindow{
		Port: "IDMAK", Category: CategoryDomestic,
		StartYear: 2024, StartMonth: 11, EndYear: 2025, EndMonth: 1,
	})
	require.NoError(t, err)

	// November and January contribute, December degrades to zero rows.
	require.Equal(t, 6, result.Total)
	require.Len(t, result.Data, 6)
	require.Contains(t, result.Data[0].NomorPKK(), "/2024/11")
	require.Contains(t, result.Data[5].NomorPKK(), "/2025/01")
}

func TestFetchRange_InvalidWindow(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()

	client := newTestClient(t, upstream)
	_, err := client.FetchRange(context.Background(), FetchWindow{Port: "IDMAK"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCountMonth(t *testing.T) {
	t.Parallel()

	var gotLength string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLength = r.URL.Query().Get("length")
		writeListPage(w, makeRows("c", 1), 742)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	n, err := client.CountMonth(context.Background(), "IDMAK", CategoryDomestic, 2025, 8)
	require.NoError(t, err)
	require.Equal(t, 742, n)
	require.Equal(t, "1", gotLength)
}

func TestCountMonth_StatusFailure(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	_, err := client.CountMonth(context.Background(), "IDMAK", CategoryDomestic, 2025, 8)

	var upErr *fetch.UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.Equal(t, http.StatusBadGateway, upErr.StatusCode)
}

func TestListURL_ZeroPadsMonth(t *testing.T) {
	t.Parallel()

	client := NewClient(fetch.New(nil, fetch.Config{}), Config{BaseURL: "https://example.test"}, zap.NewNop())
	u := client.listURL(MonthChunk{Port: "IDMAK", Category: CategoryDomestic, Year: 2025, Month: 3})
	require.Equal(t, "https://example.test/monitoring/byPort/list/IDMAK/dn/2025/03", u)
}
