package catalog

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/castor/internal/config"
	"github.com/yigit/castor/internal/pkg/apperrors"
)

func TestRules_IsEligible(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		raw  string
		want bool
	}{
		{"161", true},
		{" 290 ", true},
		{"499", true},
		{"161H", false},
		{"abc", false},
		{"", false},
		{"101", false},
		{"463", false},
		{"500", false},
		{"599", false},
		{"0", false},
		{"-5", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.IsEligible(tt.raw))
		})
	}
}

func TestRules_IsEligibleTotal(t *testing.T) {
	rules := DefaultRules()
	for n := 0; n <= 10000; n++ {
		first := rules.IsEligibleNumber(n)
		assert.Equal(t, first, rules.IsEligibleNumber(n), "course %d", n)
		assert.Equal(t, first, rules.IsEligible(strconv.Itoa(n)), "course %d as text", n)
		if n > 499 {
			assert.False(t, first, "graduate course %d must be ineligible", n)
		}
	}
}

func TestNewRules_CustomExclusions(t *testing.T) {
	cfg := config.Default().Catalog
	cfg.ExcludedCourses = []int{161}
	cfg.MaxCourseNumber = 299

	rules, err := NewRules(cfg)
	require.NoError(t, err)

	assert.False(t, rules.IsEligible("161"))
	assert.True(t, rules.IsEligible("101"))
	assert.False(t, rules.IsEligible("325"))
	assert.Equal(t, []int{161}, rules.Excluded())

	// the rules keep their own copy of the exclusion list
	cfg.ExcludedCourses[0] = 162
	assert.False(t, rules.IsEligible("161"))
	assert.True(t, rules.IsEligible("162"))
}

func TestNewRules_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.CatalogConfig)
	}{
		{"empty subject", func(c *config.CatalogConfig) { c.SubjectCode = " " }},
		{"zero ceiling", func(c *config.CatalogConfig) { c.MaxCourseNumber = 0 }},
		{"no quarter table", func(c *config.CatalogConfig) { c.QuarterCodes = nil }},
		{"quarter out of range", func(c *config.CatalogConfig) { c.QuarterCodes = map[string]int{"F": 4} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Catalog
			tt.mutate(&cfg)
			_, err := NewRules(cfg)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestRules_QuarterCode(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		label string
		want  int
	}{
		{"W26", 0},
		{"Sp26", 1},
		{"Su25", 2},
		{"F25", 3},
		{"F", 3},
		{"Fall25", 3},
		{"Winter2026", 0},
		{" Spring26 ", 1},
	}
	for _, tt := range tests {
		got, err := rules.QuarterCode(tt.label)
		require.NoError(t, err, tt.label)
		assert.Equal(t, tt.want, got, tt.label)
	}

	for _, bad := range []string{"Q25", "Autumn25", "fall25", "", "25"} {
		_, err := rules.QuarterCode(bad)
		assert.Error(t, err, bad)
	}
}
