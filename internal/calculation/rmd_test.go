package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRMD_DefaultStartAge(t *testing.T) {
	for _, age := range []int{70, 71, 72} {
		assert.True(t, CalculateRMD(age, d(1_000_000)).IsZero(), "age %d should have no RMD", age)
	}
	assert.True(t, CalculateRMD(73, d(1_000_000)).IsPositive())
}

func TestCalculateRMDForBirthYear(t *testing.T) {
	tests := []struct {
		name      string
		birthYear int
		age       int
		wantRMD   bool
	}{
		{"born 1950 at 72", 1950, 72, true},
		{"born 1950 at 71", 1950, 71, false},
		{"born 1955 at 73", 1955, 73, true},
		{"born 1955 at 72", 1955, 72, false},
		{"born 1960 at 75", 1960, 75, true},
		{"born 1960 at 74", 1960, 74, false},
		{"born 1965 at 73", 1965, 73, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rmd := CalculateRMDForBirthYear(tt.age, d(1_000_000), tt.birthYear)
			assert.Equal(t, tt.wantRMD, rmd.IsPositive())
		})
	}
}

func TestCalculateRMD_UniformLifetimeTable(t *testing.T) {
	tests := []struct {
		age      int
		expected float64
	}{
		{73, 37_735.85},
		{75, 40_650.41},
		{80, 49_504.95},
		{90, 81_967.21},
		{100, 156_250},
		{120, 500_000},
	}

	for _, tt := range tests {
		rmd := CalculateRMD(tt.age, d(1_000_000))
		assertNear(t, tt.expected, rmd, 0.01, "age %d", tt.age)
	}
}

func TestCalculateRMD_EdgeCases(t *testing.T) {
	assert.True(t, CalculateRMD(75, d(0)).IsZero())
	assert.True(t, CalculateRMD(75, d(-1000)).IsZero())

	// Past the table the divisor keeps shrinking toward 1.0
	assert.True(t, CalculateRMD(125, d(1_000_000)).GreaterThan(CalculateRMD(120, d(1_000_000))))
	assertNear(t, 1.5, RMDDivisor(125), 1e-9)
	assertNear(t, 1.0, RMDDivisor(150), 1e-9)
}

func TestRMDStartAge(t *testing.T) {
	assert.Equal(t, 72, RMDStartAge(1949))
	assert.Equal(t, 72, RMDStartAge(1950))
	assert.Equal(t, 73, RMDStartAge(1951))
	assert.Equal(t, 73, RMDStartAge(1959))
	assert.Equal(t, 75, RMDStartAge(1960))
}
