// Package layout holds the on-disk naming conventions shared by every
// corpussplit command, the SplitSpec type and the error taxonomy.
//
// The names defined here are persisted: downstream training code locates
// partitions and sites by them, so they must not change.
package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Flat partition names, in allocation order. Case-sensitive.
const (
	Train = "train"
	Valid = "valid"
	Test  = "test"
)

// StagingPrefix prefixes the temporary directory used by staged execution.
const StagingPrefix = ".corpussplit-staging-"

// PartitionNames returns the flat partition names in allocation order.
func PartitionNames() []string {
	return []string{Train, Valid, Test}
}

// IsPartitionName reports whether name is one of the flat partition names.
func IsPartitionName(name string) bool {
	return name == Train || name == Valid || name == Test
}

// SiteName returns the directory name of the site at the given 0-based index.
func SiteName(index int) string {
	return "H" + strconv.Itoa(index+1)
}

// SplitRootName returns the hierarchical output root name for the given
// fractions, e.g. Split_50_30_20. Only the first three fractions are named,
// so four or more sites share the root of their first three. Each component
// is int(p*100), truncated: 0.29 yields 28 because 0.29*100 is
// 28.999999999999996 in float64.
func SplitRootName(fractions []float64) string {
	if len(fractions) > splitRootComponents {
		fractions = fractions[:splitRootComponents]
	}
	parts := make([]string, 0, len(fractions)+1)
	parts = append(parts, "Split")
	for _, f := range fractions {
		parts = append(parts, strconv.Itoa(int(f*100)))
	}
	return strings.Join(parts, "_")
}

// splitRootComponents is how many fractions SplitRootName encodes.
const splitRootComponents = 3

// StagingName returns the staging directory name for a run id.
func StagingName(runID string) string {
	return StagingPrefix + runID
}

// IsStagingName reports whether name looks like a staging directory.
func IsStagingName(name string) bool {
	return strings.HasPrefix(name, StagingPrefix)
}

// ValidateName checks that name can be used as a single path component.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrValidation)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: name %q must not contain path separators", ErrValidation, name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: name %q is not allowed", ErrValidation, name)
	}
	return nil
}
