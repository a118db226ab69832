package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roidash/internal/modules/report/domain"
)

func TestPercentChange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		before, after float64
		want          float64
	}{
		{name: "ticket volume", before: 31.6, after: 21.3, want: -32.6},
		{name: "handle time", before: 47.3, after: 29.8, want: -37.0},
		{name: "first contact resolution", before: 42.7, after: 71.4, want: 67.2},
		{name: "csat half rounds up", before: 3.2, after: 4.6, want: 43.8},
		{name: "cost per ticket", before: 23.40, after: 14.70, want: -37.2},
		{name: "zero baseline", before: 0, after: 5, want: 0},
		{name: "no change", before: 10, after: 10, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.PercentChange(tt.before, tt.after))
		})
	}
}

func TestComparisonImproved(t *testing.T) {
	t.Parallel()
	assert.True(t, domain.NewComparison("AHT", "minutes", 47.3, 29.8, true).Improved())
	assert.False(t, domain.NewComparison("AHT", "minutes", 29.8, 47.3, true).Improved())
	assert.True(t, domain.NewComparison("CSAT", "of 5", 3.2, 4.6, false).Improved())
}

func TestMoney(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "$59,704", domain.Money(59704))
	assert.Equal(t, "$238,816", domain.Money(238816))
	assert.Equal(t, "$512", domain.Money(512))
	assert.Equal(t, "$1,000,000", domain.Money(1e6))
	assert.Equal(t, "-$2,500", domain.Money(-2500))
	assert.Equal(t, "$0", domain.Money(0))
}
