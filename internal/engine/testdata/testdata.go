package testdata

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// ClaimsCSV is a 40-row labeled claims dataset (20 fraud, 20 legitimate)
// with an extra claim_id column the loader must ignore.
//
//go:embed claims.csv
var ClaimsCSV []byte

// SmallCSV is a 10-row labeled dataset (5 fraud, 5 legitimate).
//
//go:embed small.csv
var SmallCSV []byte

// Claims returns a reader over ClaimsCSV.
func Claims() *bytes.Reader {
	return bytes.NewReader(ClaimsCSV)
}

// Small returns a reader over SmallCSV.
func Small() *bytes.Reader {
	return bytes.NewReader(SmallCSV)
}

// WriteFile writes data to name inside dir and returns the full path.
func WriteFile(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
