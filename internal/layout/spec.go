package layout

import (
	"fmt"
	"math"
)

// Share is one named bucket of a SplitSpec and the fraction of items it targets.
type Share struct {
	Name     string  `json:"name"`
	Fraction float64 `json:"fraction"`
}

// SplitSpec is an ordered list of shares. Fractions are expected to sum to 1
// but this is not enforced; the planners expose the resulting slack instead.
type SplitSpec []Share

// FlatSpec builds the train/valid/test spec from exactly three fractions.
func FlatSpec(fractions []float64) (SplitSpec, error) {
	names := PartitionNames()
	if len(fractions) != len(names) {
		return nil, fmt.Errorf("%w: expected %d percentages (train, valid, test), got %d",
			ErrValidation, len(names), len(fractions))
	}
	spec := make(SplitSpec, len(names))
	for i, name := range names {
		spec[i] = Share{Name: name, Fraction: fractions[i]}
	}
	return spec, spec.Validate()
}

// SiteSpec builds the H1..Hn spec, one site per fraction.
func SiteSpec(fractions []float64) (SplitSpec, error) {
	if len(fractions) == 0 {
		return nil, fmt.Errorf("%w: at least one site percentage is required", ErrValidation)
	}
	spec := make(SplitSpec, len(fractions))
	for i, f := range fractions {
		spec[i] = Share{Name: SiteName(i), Fraction: f}
	}
	return spec, spec.Validate()
}

// Names returns the bucket names in order.
func (s SplitSpec) Names() []string {
	names := make([]string, len(s))
	for i, share := range s {
		names[i] = share.Name
	}
	return names
}

// Fractions returns the bucket fractions in order.
func (s SplitSpec) Fractions() []float64 {
	fractions := make([]float64, len(s))
	for i, share := range s {
		fractions[i] = share.Fraction
	}
	return fractions
}

// Sum returns the left-to-right float64 sum of the fractions.
func (s SplitSpec) Sum() float64 {
	var sum float64
	for _, share := range s {
		sum += share.Fraction
	}
	return sum
}

// Validate rejects empty specs, bad names and negative or non-finite
// fractions. It does not require the fractions to sum to 1.
func (s SplitSpec) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: split spec is empty", ErrValidation)
	}
	seen := make(map[string]bool, len(s))
	for _, share := range s {
		if err := ValidateName(share.Name); err != nil {
			return err
		}
		if seen[share.Name] {
			return fmt.Errorf("%w: duplicate bucket %q", ErrValidation, share.Name)
		}
		seen[share.Name] = true
		if math.IsNaN(share.Fraction) || math.IsInf(share.Fraction, 0) {
			return fmt.Errorf("%w: fraction for %q is not a finite number", ErrValidation, share.Name)
		}
		if share.Fraction < 0 {
			return fmt.Errorf("%w: fraction for %q is negative (%v)", ErrValidation, share.Name, share.Fraction)
		}
	}
	return nil
}
