package resources

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateEOSBUnderFiveYears(t *testing.T) {
	// 730 days = exactly 2 years at 365 days/year; 3650/month is a daily wage
	// of 120, so 2 * 21 * 120 = 5040.
	got, err := EstimateEOSB("2021-01-01", "2023-01-01", "3650")
	require.NoError(t, err)
	assert.Equal(t, "5040.00", got)
}

func TestEstimateEOSBBeyondFiveYears(t *testing.T) {
	got, err := EstimateEOSB("2013-01-01", "2023-01-01", "3650")
	require.NoError(t, err)
	val, err := strconv.ParseFloat(got, 64)
	require.NoError(t, err)
	// 105 days for the first five years plus 30/year for the remaining
	// ~5.005 years, at 120/day.
	assert.InDelta(t, 30619.73, val, 0.1)
}

func TestEstimateEOSBZeroService(t *testing.T) {
	got, err := EstimateEOSB("2023-05-01", "2023-05-01", "3000")
	require.NoError(t, err)
	assert.Equal(t, "0.00", got)
}

func TestEstimateEOSBRejectsBadInput(t *testing.T) {
	_, err := EstimateEOSB("not-a-date", "2023-01-01", "3000")
	assert.Error(t, err)

	_, err = EstimateEOSB("2023-01-01", "2020-01-01", "3000")
	assert.Error(t, err)

	_, err = EstimateEOSB("2020-01-01", "2023-01-01", "-5")
	assert.Error(t, err)

	_, err = EstimateEOSB("2020-01-01", "2023-01-01", "abc")
	assert.Error(t, err)
}
