package inaportnet

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/fetch"
)

// DetailRecord is the structured view of one port-call detail page. Fields
// the page does not yield stay empty.
type DetailRecord struct {
	NomorPKK   string `json:"nomor_pkk"`
	NamaKapal  string `json:"nama_kapal"`
	JenisKapal string `json:"jenis_kapal"`
	Perusahaan string `json:"perusahaan"`
	Asal       string `json:"asal"`
	Tujuan     string `json:"tujuan"`
}

// FetchDetail retrieves one detail page and extracts company, origin,
// destination and the vessel name/category from the card title.
func (c *Client) FetchDetail(ctx context.Context, nomorPKK string) (DetailRecord, error) {
	detailURL := fmt.Sprintf("%s/monitoring/detail?nomor_pkk=%s", c.cfg.BaseURL, url.QueryEscape(nomorPKK))

	resp, err := c.fetch.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build detail request: %w", err)
		}
		req.Header.Set("Accept", "text/html,*/*;q=0.8")
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		return req, nil
	})
	if err != nil {
		return DetailRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return DetailRecord{}, &fetch.UpstreamError{URL: detailURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return DetailRecord{}, fmt.Errorf("parse detail page: %w", err)
	}
	return parseDetail(nomorPKK, doc), nil
}

func parseDetail(nomorPKK string, doc *goquery.Document) DetailRecord {
	name, category := extractCardTitle(doc.Find(".card-title b").First().Text())
	fields := extractLabeled(doc.Find("body").Text())
	return DetailRecord{
		NomorPKK:   nomorPKK,
		NamaKapal:  name,
		JenisKapal: category,
		Perusahaan: fields["perusahaan"],
		Asal:       fields["asal"],
		Tujuan:     fields["tujuan"],
	}
}
