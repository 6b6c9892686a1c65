package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/danieljhkim/corpussplit/internal/layout"
)

// ParsePercentages parses a fraction list written as "0.7,0.2,0.1" or
// "[0.7, 0.2, 0.1]". Every value must be a finite, non-negative number; the
// sum is not checked.
func ParsePercentages(s string) ([]float64, error) {
	body := strings.TrimSpace(s)
	if strings.HasPrefix(body, "[") || strings.HasSuffix(body, "]") {
		if !strings.HasPrefix(body, "[") || !strings.HasSuffix(body, "]") {
			return nil, fmt.Errorf("%w: unbalanced brackets in percentages %q", layout.ErrValidation, s)
		}
		body = strings.TrimSpace(body[1 : len(body)-1])
	}
	if body == "" {
		return nil, fmt.Errorf("%w: empty percentages", layout.ErrValidation)
	}

	parts := strings.Split(body, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: percentage %q is not a number", layout.ErrValidation, part)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return nil, fmt.Errorf("%w: percentage %q must be a finite non-negative number", layout.ErrValidation, part)
		}
		out = append(out, f)
	}
	return out, nil
}
