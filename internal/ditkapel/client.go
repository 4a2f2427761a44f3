// Package ditkapel queries the Ditkapel vessel registry by vessel name and
// normalizes its rows into a fixed, ordered header set.
package ditkapel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/fetch"
)

// DefaultBaseURL is the production registry endpoint.
const DefaultBaseURL = "https://kapal.dephub.go.id"

const (
	searchPath       = "/ditkapel_service/data_kapal/api-kapal.php"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// fieldMap pairs upstream JSON keys with their display headers, in output
// column order. Unknown upstream keys are dropped; missing keys render as
// empty strings.
var fieldMap = []struct {
	key    string
	header string
}{
	{"NamaKapal", "Nama Kapal"},
	{"EksNamaKapal", "Eks Nama Kapal"},
	{"HurufPengenal", "Call Sign"},
	{"JenisDetailKet", "Jenis Kapal"},
	{"NamaPemilik", "Nama Pemilik"},
	{"KotaPemilik", "Kota Pemilik"},
	{"AlamatPemilik", "Alamat Pemilik"},
	{"TandaPendaftaran", "No. Tanda Pendaftaran"},
	{"PelabuhanPendaftaran", "Pelabuhan Pendaftaran"},
	{"TempatPendaftaran", "Tempat Pendaftaran"},
	{"TanggalDaftar", "Tanggal Daftar"},
	{"Panjang", "Panjang"},
	{"Lebar", "Lebar"},
	{"Dalam", "Dalam"},
	{"LengthOfAll", "LOA"},
	{"IsiKotor", "GT"},
	{"IsiBersih", "Isi Bersih"},
	{"NomorIMO", "Nomor IMO"},
	{"TahunPembuatan", "Tahun Pembuatan"},
	{"TempatPembuatan", "Tempat Pembuatan"},
	{"BahanUtamaKapal", "Bahan Utama"},
	{"Mesin", "Mesin"},
	{"Daya", "Daya"},
	{"PenggerakUtama", "Penggerak Utama"},
	{"SuratUkurNo", "Surat Ukur No"},
	{"SuratTanggalUkur", "Tanggal Ukur"},
	{"TandaSelar", "Tanda Selar"},
	{"NomorAkta", "Nomor Akta"},
	{"NPWP", "NPWP"},
	{"BenderaAsal", "Bendera Asal"},
}

// Headers returns the output column names in order.
func Headers() []string {
	headers := make([]string, len(fieldMap))
	for i, f := range fieldMap {
		headers[i] = f.header
	}
	return headers
}

// VesselRecord is one normalized registry row keyed by display header.
// Every header is present; unparsable or absent values are empty strings.
type VesselRecord map[string]string

// LookupResult is the header/row payload handed to the dashboard.
type LookupResult struct {
	Headers []string       `json:"headers"`
	Data    []VesselRecord `json:"data"`
}

// Config controls the registry client.
type Config struct {
	BaseURL   string
	UserAgent string
	// DirectLimit caps rows for a single lookup, default 200.
	DirectLimit int
	// BatchLimit caps rows per name inside a batch, default 20.
	BatchLimit int
	// GroupSize is the batch fan-out width, default 3.
	GroupSize int
	// GroupDelay spaces successive batch groups, default 1s.
	GroupDelay time.Duration
}

// Client issues search requests against the vessel registry.
type Client struct {
	cfg    Config
	fetch  *fetch.Client
	logger *zap.Logger
}

// NewClient builds a Client. The fetch client should be the status-retrying
// variant: the registry intermittently rejects well-formed requests.
func NewClient(f *fetch.Client, cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.DirectLimit <= 0 {
		cfg.DirectLimit = 200
	}
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = 20
	}
	if cfg.GroupSize <= 0 {
		cfg.GroupSize = 3
	}
	if cfg.GroupDelay == 0 {
		cfg.GroupDelay = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, fetch: f, logger: logger}
}

// LookupVessel searches the registry by vessel name with the direct limit.
func (c *Client) LookupVessel(ctx context.Context, name string) (LookupResult, error) {
	rows, err := c.lookup(ctx, name, c.cfg.DirectLimit)
	if err != nil {
		return LookupResult{}, err
	}
	return LookupResult{Headers: Headers(), Data: rows}, nil
}

func (c *Client) lookup(ctx context.Context, name string, limit int) ([]VesselRecord, error) {
	resp, err := c.fetch.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		form := url.Values{}
		form.Set("draw", "1")
		form.Set("start", "0")
		form.Set("length", strconv.Itoa(limit))
		form.Set("search[value]", "")
		form.Set("search[regex]", "false")
		form.Set("nama_kapal", name)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+searchPath, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("build registry request: %w", err)
		}
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		req.Header.Set("Referer", c.cfg.BaseURL+"/ditkapel_service/data_kapal/")
		req.Header.Set("Origin", c.cfg.BaseURL)
		req.Header.Set("Connection", "keep-alive")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}

	rows := make([]VesselRecord, 0, len(payload.Data))
	for _, raw := range payload.Data {
		rows = append(rows, mapRow(raw))
	}
	return rows, nil
}

func mapRow(raw map[string]any) VesselRecord {
	row := make(VesselRecord, len(fieldMap))
	for _, f := range fieldMap {
		row[f.header] = coerceString(raw[f.key])
	}
	return row
}

// coerceString renders any upstream value as a trimmed string; nil becomes
// the empty string, numbers keep their plain decimal form.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
