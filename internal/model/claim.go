package model

// Column names of the claims dataset.
const (
	ColClaimAmount         = "claim_amount"
	ColClaimantAge         = "claimant_age"
	ColIncidentDescription = "incident_description"
	ColIsFraud             = "is_fraud"
)

// NumericColumns are the columns fed to the scaler, in feature order.
var NumericColumns = []string{ColClaimAmount, ColClaimantAge}

// Claim is a single insurance claim as read from the dataset.
// Missing numeric cells are math.NaN().
type Claim struct {
	Amount      float64
	Age         float64
	Description string
}

// Numeric returns the numeric features in NumericColumns order.
func (c Claim) Numeric() []float64 {
	return []float64{c.Amount, c.Age}
}

// Dataset is the labeled claims table. Claims and Labels are index-aligned.
type Dataset struct {
	Claims []Claim
	Labels []int // 0 = legitimate, 1 = fraud
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Claims)
}

// Subset returns a new Dataset holding the rows at idx, in idx order.
func (d *Dataset) Subset(idx []int) *Dataset {
	out := &Dataset{
		Claims: make([]Claim, len(idx)),
		Labels: make([]int, len(idx)),
	}
	for i, j := range idx {
		out.Claims[i] = d.Claims[j]
		out.Labels[i] = d.Labels[j]
	}
	return out
}

// Descriptions returns the free-text column.
func (d *Dataset) Descriptions() []string {
	out := make([]string, len(d.Claims))
	for i, c := range d.Claims {
		out[i] = c.Description
	}
	return out
}

// ClassCounts returns the number of rows per label value.
func (d *Dataset) ClassCounts() map[int]int {
	counts := make(map[int]int, 2)
	for _, y := range d.Labels {
		counts[y]++
	}
	return counts
}
