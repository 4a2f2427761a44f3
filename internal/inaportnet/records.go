package inaportnet

// ActivityRecord is one row of the upstream shipping-activity list. The
// upstream field set is not contractually fixed, so rows pass through as an
// open mapping; only the keys the service itself relies on get accessors.
type ActivityRecord map[string]any

// NomorPKK returns the unique port-call key of the row.
func (r ActivityRecord) NomorPKK() string {
	return r.stringField("Nomor PKK")
}

// NamaKapal returns the vessel name of the row.
func (r ActivityRecord) NamaKapal() string {
	return r.stringField("Nama Kapal")
}

func (r ActivityRecord) stringField(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
