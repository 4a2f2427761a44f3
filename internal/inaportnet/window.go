package inaportnet

import "fmt"

// Category selects the traffic class of a port-call list.
type Category string

// Category values as the upstream encodes them in the URL path.
const (
	CategoryDomestic      Category = "dn"
	CategoryInternational Category = "ln"
)

// FetchWindow describes one list request: a port, a traffic category and an
// inclusive month range, with an optional search term.
type FetchWindow struct {
	Port       string
	Category   Category
	StartYear  int
	StartMonth int
	EndYear    int
	EndMonth   int
	Search     string
}

// MonthChunk is the per-month unit of work a FetchWindow expands into.
type MonthChunk struct {
	Port     string
	Category Category
	Year     int
	Month    int
}

// ValidationError reports a caller error in request parameters.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validate checks that every required parameter is present and in range and
// that the window is not inverted.
func (w FetchWindow) Validate() error {
	if w.Port == "" {
		return &ValidationError{Msg: "port is required"}
	}
	if w.Category != CategoryDomestic && w.Category != CategoryInternational {
		return &ValidationError{Msg: fmt.Sprintf("jenis must be %q or %q", CategoryDomestic, CategoryInternational)}
	}
	if w.StartYear == 0 || w.EndYear == 0 {
		return &ValidationError{Msg: "start and end year are required"}
	}
	if w.StartMonth < 1 || w.StartMonth > 12 {
		return &ValidationError{Msg: fmt.Sprintf("start month %d out of range 1..12", w.StartMonth)}
	}
	if w.EndMonth < 1 || w.EndMonth > 12 {
		return &ValidationError{Msg: fmt.Sprintf("end month %d out of range 1..12", w.EndMonth)}
	}
	if w.StartYear*12+w.StartMonth > w.EndYear*12+w.EndMonth {
		return &ValidationError{Msg: "start of range is after its end"}
	}
	return nil
}

// MonthsBetween expands a window into one chunk per calendar month,
// inclusive of both ends, in ascending order.
func MonthsBetween(w FetchWindow) ([]MonthChunk, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	start := w.StartYear*12 + (w.StartMonth - 1)
	end := w.EndYear*12 + (w.EndMonth - 1)
	chunks := make([]MonthChunk, 0, end-start+1)
	for m := start; m <= end; m++ {
		chunks = append(chunks, MonthChunk{
			Port:     w.Port,
			Category: w.Category,
			Year:     m / 12,
			Month:    m%12 + 1,
		})
	}
	return chunks, nil
}
