package ports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pelabuhan.json")
	payload := `[{"code":"IDMAK","name":"Makassar"},{"code":"IDJKT","name":"Tanjung Priok"}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	dir, err := Load(path)
	require.NoError(t, err)
	require.Len(t, dir, 2)
	require.Equal(t, "IDMAK", dir[0].Code)
	require.Equal(t, "Makassar", dir.Name("IDMAK"))
	require.Equal(t, "Tidak Dikenal", dir.Name("XXXXX"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
