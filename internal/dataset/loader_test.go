package dataset

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/fraudtrain/internal/engine/testdata"
)

func TestRead_Claims(t *testing.T) {
	ds, err := Read(testdata.Claims())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ds.Len() != 40 {
		t.Fatalf("expected 40 rows, got %d", ds.Len())
	}
	counts := ds.ClassCounts()
	if counts[0] != 20 || counts[1] != 20 {
		t.Fatalf("expected 20/20 classes, got %v", counts)
	}
	first := ds.Claims[0]
	if first.Amount != 1498.18 || first.Age != 34 {
		t.Errorf("unexpected first claim: %+v", first)
	}
	if !strings.Contains(first.Description, "scratch") {
		t.Errorf("unexpected description: %q", first.Description)
	}
}

func TestLoad_File(t *testing.T) {
	path, err := testdata.WriteFile(t.TempDir(), "claims.csv", testdata.SmallCSV)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 10 {
		t.Fatalf("expected 10 rows, got %d", ds.Len())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		want    string
	}{
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmpty,
		},
		{
			name:    "header only",
			input:   "claim_amount,claimant_age,incident_description,is_fraud\n",
			wantErr: ErrEmpty,
		},
		{
			name:    "missing label column",
			input:   "claim_amount,claimant_age,incident_description\n1,2,x\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "missing text column",
			input:   "claim_amount,claimant_age,is_fraud\n1,2,0\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "non-numeric amount",
			input:   "claim_amount,claimant_age,incident_description,is_fraud\nlots,2,x,0\n",
			wantErr: ErrBadNumeric,
			want:    "claim_amount",
		},
		{
			name:    "infinite amount",
			input:   "claim_amount,claimant_age,incident_description,is_fraud\n1,2,x,0\ninf,3,y,1\n",
			wantErr: ErrBadNumeric,
			want:    "line 3: claim_amount",
		},
		{
			name:    "negative infinite age",
			input:   "claim_amount,claimant_age,incident_description,is_fraud\n1,-Inf,x,0\n",
			wantErr: ErrBadNumeric,
			want:    "claimant_age",
		},
		{
			name:    "overflowing amount",
			input:   "claim_amount,claimant_age,incident_description,is_fraud\n1e400,2,x,0\n",
			wantErr: ErrBadNumeric,
		},
		{
			name:    "non-binary label",
			input:   "claim_amount,claimant_age,incident_description,is_fraud\n1,2,x,2\n",
			wantErr: ErrBadLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRead_ColumnOrderAndMissingValues(t *testing.T) {
	input := "is_fraud,incident_description,claimant_age,claim_amount\n" +
		"true,\"stolen, no witnesses\",,5000\n" +
		"0.0,scratch,40,\n"
	ds, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ds.Labels[0] != 1 || ds.Labels[1] != 0 {
		t.Fatalf("unexpected labels: %v", ds.Labels)
	}
	if ds.Claims[0].Amount != 5000 || !math.IsNaN(ds.Claims[0].Age) {
		t.Errorf("unexpected first claim: %+v", ds.Claims[0])
	}
	if !math.IsNaN(ds.Claims[1].Amount) || ds.Claims[1].Age != 40 {
		t.Errorf("unexpected second claim: %+v", ds.Claims[1])
	}
	if ds.Claims[0].Description != "stolen, no witnesses" {
		t.Errorf("unexpected description: %q", ds.Claims[0].Description)
	}
}

func TestReadClaims_IgnoresLabel(t *testing.T) {
	claims, err := ReadClaims(strings.NewReader("claim_amount,claimant_age,incident_description\n10,20,dent\n"))
	if err != nil {
		t.Fatalf("ReadClaims: %v", err)
	}
	if len(claims) != 1 || claims[0].Description != "dent" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
