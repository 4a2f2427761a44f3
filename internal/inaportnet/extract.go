package inaportnet

import (
	"regexp"
	"strings"
)

// labelBreakers is the set of field labels that appear in the rendered
// detail page. Captures stop at the first of these tokens, so the list must
// track upstream layout changes. Treat it as configuration, not logic.
var labelBreakers = []string{
	`Asal`,
	`Tujuan`,
	`Waktu`,
	`Bendera`,
	`Call\s*Sign`,
	`IMO`,
	`Jenis\s*Trayek`,
	`Trayek`,
	`Nama\s*Kapal`,
	`GT`,
	`LOA`,
	`Nakhoda`,
	`Nomor\s*PKK`,
	`SPB`,
	`ETA`,
	`ETD`,
	`Pelabuhan`,
	`Lokasi`,
	`DWT`,
	`MMSI`,
	`No\.?\s*SSM`,
	`Single\s*Billing`,
	`STATUS`,
	`KETERANGAN`,
	`Layanan`,
}

var breakerGroup = "(?:" + strings.Join(labelBreakers, "|") + ")"

// boundedCapture builds a pattern that captures the text following a label
// up to the next recognized label or the end of the text.
func boundedCapture(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `\s*(.+?)\s*(?:` + breakerGroup + `|$)`)
}

// labeledField pairs an output field with its label pattern, most specific
// first. Extraction walks this table; the first matching rule per field wins.
type labeledField struct {
	field string
	re    *regexp.Regexp
}

var detailFields = []labeledField{
	{field: "perusahaan", re: boundedCapture(`Nama\s*Perusahaan\s*:?`)},
	{field: "perusahaan", re: boundedCapture(`\bPerusahaan\b\s*:?`)},
	{field: "asal", re: boundedCapture(`\bAsal\s*:`)},
	{field: "tujuan", re: boundedCapture(`\bTujuan\s*:`)},
}

// Card titles render as "<prefix> - <name> (<category>)".
var (
	cardNameRe     = regexp.MustCompile(`- ([^(]+)`)
	cardCategoryRe = regexp.MustCompile(`\(([^)]+)\)`)
)

// cleanText collapses whitespace runs to single spaces and trims.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractLabeled applies the detail field table to whole-document text.
// Missing fields come back as empty strings; absence is not an error.
func extractLabeled(text string) map[string]string {
	text = cleanText(text)
	out := map[string]string{}
	for _, rule := range detailFields {
		if out[rule.field] != "" {
			continue
		}
		if m := rule.re.FindStringSubmatch(text); m != nil {
			out[rule.field] = cleanText(m[1])
		}
	}
	return out
}

// extractCardTitle splits a card title into vessel name and category.
func extractCardTitle(title string) (name, category string) {
	title = cleanText(title)
	if m := cardNameRe.FindStringSubmatch(title); m != nil {
		name = strings.TrimSpace(m[1])
	}
	if m := cardCategoryRe.FindStringSubmatch(title); m != nil {
		category = strings.TrimSpace(m[1])
	}
	return name, category
}
