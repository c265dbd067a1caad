// Package catalog scrapes the course catalog and reconciles it against the stored courses.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yigit/castor/internal/config"
	"github.com/yigit/castor/internal/pkg/apperrors"
)

// Rules decides which catalog entries belong to the tracked program and how raw
// catalog values map to stored ones. The zero value is not usable; build one with NewRules.
type Rules struct {
	subject  string
	excluded map[int]struct{}
	ceiling  int
	quarters map[string]int
}

// NewRules builds an immutable rule set from the catalog configuration.
func NewRules(cfg config.CatalogConfig) (Rules, error) {
	subject := strings.TrimSpace(cfg.SubjectCode)
	if subject == "" {
		return Rules{}, fmt.Errorf("%w: subject code is required", apperrors.ErrValidationFailed)
	}
	if cfg.MaxCourseNumber <= 0 {
		return Rules{}, fmt.Errorf("%w: max course number must be positive", apperrors.ErrValidationFailed)
	}
	if len(cfg.QuarterCodes) == 0 {
		return Rules{}, fmt.Errorf("%w: quarter code table is empty", apperrors.ErrValidationFailed)
	}

	r := Rules{
		subject:  subject,
		excluded: make(map[int]struct{}, len(cfg.ExcludedCourses)),
		ceiling:  cfg.MaxCourseNumber,
		quarters: make(map[string]int, len(cfg.QuarterCodes)),
	}
	for _, n := range cfg.ExcludedCourses {
		r.excluded[n] = struct{}{}
	}
	for code, q := range cfg.QuarterCodes {
		if q < 0 || q > 3 {
			return Rules{}, fmt.Errorf("%w: quarter code %q maps to %d, want 0-3", apperrors.ErrValidationFailed, code, q)
		}
		r.quarters[code] = q
	}
	return r, nil
}

// DefaultRules returns the rules built from the default configuration.
func DefaultRules() Rules {
	r, err := NewRules(config.Default().Catalog)
	if err != nil {
		panic(err)
	}
	return r
}

// Subject returns the tracked subject code.
func (r Rules) Subject() string { return r.subject }

// Excluded returns the excluded course numbers in ascending order.
func (r Rules) Excluded() []int {
	out := make([]int, 0, len(r.excluded))
	for n := range r.excluded {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// IsEligible reports whether a raw course number belongs to the tracked program.
// Anything that is not a plain integer, such as an honors "161H", is ineligible.
func (r Rules) IsEligible(raw string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return r.IsEligibleNumber(n)
}

// IsEligibleNumber is IsEligible for an already parsed course number.
func (r Rules) IsEligibleNumber(n int) bool {
	if n < 1 || n > r.ceiling {
		return false
	}
	_, excluded := r.excluded[n]
	return !excluded
}

// QuarterCode maps a session term label to its quarter code. A label is a
// table key followed by year digits: "F25", "Sp26" or "Fall25" with the default
// table. Keys are case sensitive.
func (r Rules) QuarterCode(label string) (int, error) {
	code := strings.TrimRight(strings.TrimSpace(label), "0123456789")
	q, ok := r.quarters[code]
	if !ok {
		return 0, fmt.Errorf("unknown quarter code %q", label)
	}
	return q, nil
}
