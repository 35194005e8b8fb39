package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/crimson-sun/fraudtrain/internal/model"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmpty is returned when the dataset has no rows.
	ErrEmpty = errors.New("dataset is empty")
	// ErrBadLabel is returned when is_fraud is not a binary value.
	ErrBadLabel = errors.New("label is not binary")
	// ErrBadNumeric is returned when a numeric cell is not a finite number.
	ErrBadNumeric = errors.New("value is not a finite number")
)

// Load reads a claims CSV with a header row from path.
func Load(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	return ds, nil
}

// Read parses a claims CSV. Columns are located by header name; extra
// columns are ignored. Empty numeric cells become NaN.
func Read(r io.Reader) (*model.Dataset, error) {
	cols, rows, err := readTable(r, true)
	if err != nil {
		return nil, err
	}

	label := cols[model.ColIsFraud]
	ds := &model.Dataset{
		Claims: make([]model.Claim, 0, len(rows)),
		Labels: make([]int, 0, len(rows)),
	}
	for i, rec := range rows {
		c, err := parseClaim(cols, rec, i+2)
		if err != nil {
			return nil, err
		}
		y, err := parseLabel(rec[label])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		ds.Claims = append(ds.Claims, c)
		ds.Labels = append(ds.Labels, y)
	}
	return ds, nil
}

// ReadClaims parses a CSV holding only the feature columns. A label
// column, if present, is ignored.
func ReadClaims(r io.Reader) ([]model.Claim, error) {
	cols, rows, err := readTable(r, false)
	if err != nil {
		return nil, err
	}
	claims := make([]model.Claim, 0, len(rows))
	for i, rec := range rows {
		c, err := parseClaim(cols, rec, i+2)
		if err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, nil
}

// readTable reads all records and resolves the required column indexes.
func readTable(r io.Reader, withLabel bool) (map[string]int, [][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrEmpty
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	required := []string{model.ColClaimAmount, model.ColClaimantAge, model.ColIncidentDescription}
	if withLabel {
		required = append(required, model.ColIsFraud)
	}
	cols := make(map[string]int, len(required))
	for _, name := range required {
		i, ok := index[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		cols[name] = i
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmpty
	}
	return cols, rows, nil
}

func parseClaim(cols map[string]int, rec []string, line int) (model.Claim, error) {
	amount, err := parseNumeric(rec[cols[model.ColClaimAmount]])
	if err != nil {
		return model.Claim{}, fmt.Errorf("line %d: %s: %w", line, model.ColClaimAmount, err)
	}
	age, err := parseNumeric(rec[cols[model.ColClaimantAge]])
	if err != nil {
		return model.Claim{}, fmt.Errorf("line %d: %s: %w", line, model.ColClaimantAge, err)
	}
	return model.Claim{
		Amount:      amount,
		Age:         age,
		Description: rec[cols[model.ColIncidentDescription]],
	}, nil
}

func parseNumeric(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrBadNumeric, s)
	}
	return v, nil
}

func parseLabel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		switch f {
		case 0:
			return 0, nil
		case 1:
			return 1, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrBadLabel, s)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadLabel, s)
}
