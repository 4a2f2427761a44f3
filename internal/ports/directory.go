// Package ports loads the static port directory used for lookups and ranking.
package ports

import (
	"encoding/json"
	"fmt"
	"os"
)

// Port is one entry of the Inaportnet port master list.
type Port struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Directory is the ordered, read-only port list. It is loaded once at
// startup and injected into the components that need it.
type Directory []Port

// Load reads a directory from a JSON file of {code, name} objects.
func Load(path string) (Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read port directory: %w", err)
	}
	var dir Directory
	if err := json.Unmarshal(raw, &dir); err != nil {
		return nil, fmt.Errorf("parse port directory: %w", err)
	}
	return dir, nil
}

// Name resolves a port code to its display name.
func (d Directory) Name(code string) string {
	for _, p := range d {
		if p.Code == code {
			return p.Name
		}
	}
	return "Tidak Dikenal"
}
