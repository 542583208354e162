package region_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memkit/bitpool"
	"github.com/memkit/bitpool/bitvec"
	"github.com/memkit/bitpool/region"
)

func TestScannerZeroCount(t *testing.T) {
	vec := bitvec.New(10)
	vec.SetAll(true)
	scanner := region.NewScanner(vec, region.FirstFit)

	// A zero-count scan succeeds at 0 regardless of the vector contents and
	// the requested start.
	require.Equal(t, 0, scanner.Scan(0, 0, false))
	require.Equal(t, 0, scanner.Scan(7, 0, false))
	require.Equal(t, 0, scanner.Scan(10, 0, true))

	require.Equal(t, 0, scanner.ScanAndFlip(4, 0, false))
	require.Equal(t, 10, vec.CountRange(0, 10, true))
}

func TestScannerCountTooLarge(t *testing.T) {
	vec := bitvec.New(10)
	scanner := region.NewScanner(vec, region.FirstFit)

	require.Equal(t, region.NotFound, scanner.Scan(0, 11, false))
	require.Equal(t, region.NotFound, scanner.ScanAndFlip(0, 11, false))
	require.True(t, vec.None(0, 10))
}

func TestScannerPanicsOnBadArgs(t *testing.T) {
	vec := bitvec.New(10)
	scanner := region.NewScanner(vec, region.FirstFit)

	require.Panics(t, func() { region.NewScanner(nil, region.FirstFit) })
	require.Panics(t, func() { region.NewScanner(vec, region.Strategy(9)) })
	require.Panics(t, func() { scanner.SetStrategy(region.Strategy(9)) })
	require.Panics(t, func() { scanner.Scan(-1, 2, false) })
	require.Panics(t, func() { scanner.Scan(11, 2, false) })
	require.Panics(t, func() { scanner.Scan(0, -1, false) })
}

func TestScannerScanAndFlip(t *testing.T) {
	vec := bitvec.New(20)
	scanner := region.NewScanner(vec, region.FirstFit)

	idx := scanner.ScanAndFlip(0, 3, false)
	require.Equal(t, 0, idx)
	require.True(t, vec.All(0, 3))
	require.False(t, vec.Test(3))

	idx = scanner.ScanAndFlip(0, 3, false)
	require.Equal(t, 3, idx)
	require.True(t, vec.All(0, 6))

	// Flipping the other way releases a claimed run.
	idx = scanner.ScanAndFlip(0, 2, true)
	require.Equal(t, 0, idx)
	require.False(t, vec.Test(0))
	require.False(t, vec.Test(1))
	require.True(t, vec.Test(2))
}

func TestScannerScanAndFlipNotFound(t *testing.T) {
	vec := bitvec.New(10)
	vec.SetAll(true)
	scanner := region.NewScanner(vec, region.FirstFit)

	require.Equal(t, region.NotFound, scanner.ScanAndFlip(0, 2, false))
	require.Equal(t, 10, vec.CountRange(0, 10, true))
}

func TestScannerIdempotentScans(t *testing.T) {
	vec := bitvec.New(40)
	vec.SetRange(0, 10, true)
	vec.SetRange(20, 5, true)

	for _, strategy := range []region.Strategy{region.FirstFit, region.NextFit, region.BestFit} {
		scanner := region.NewScanner(vec, strategy)

		first := scanner.Scan(0, 3, false)
		require.NotEqual(t, region.NotFound, first)
		for i := 0; i < 3; i++ {
			require.Equal(t, first, scanner.Scan(0, 3, false), "strategy %s", strategy)
		}
	}

	// BuddySystem mutates its bookkeeping during the warm-up scans; once they
	// are spent, scans of an unchanged vector repeat their answer.
	scanner := region.NewScanner(vec, region.BuddySystem)
	for i := 0; i < 3; i++ {
		scanner.Scan(0, 2, false)
	}
	first := scanner.Scan(0, 2, false)
	for i := 0; i < 3; i++ {
		require.Equal(t, first, scanner.Scan(0, 2, false))
	}
}

func TestScannerStrategySwitchKeepsState(t *testing.T) {
	vec := bitvec.New(10)
	scanner := region.NewScanner(vec, region.NextFit)

	require.Equal(t, 0, scanner.ScanAndFlip(0, 2, false))
	require.Equal(t, 2, scanner.ScanAndFlip(0, 2, false))
	vec.SetRange(0, 2, false)

	// FirstFit lands below the NextFit cursor without disturbing it.
	scanner.SetStrategy(region.FirstFit)
	require.Equal(t, region.FirstFit, scanner.Strategy())
	require.Equal(t, 0, scanner.Scan(0, 2, false))

	// The cursor survived the round trip: the next NextFit scan resumes at the
	// last NextFit success instead of the FirstFit result.
	scanner.SetStrategy(region.NextFit)
	require.Equal(t, 4, scanner.ScanAndFlip(0, 2, false))
}

func TestScannerMaxBlock(t *testing.T) {
	vec := bitvec.New(100)
	scanner := region.NewScanner(vec, region.BuddySystem)

	require.Equal(t, region.DefaultMaxBlock, scanner.MaxBlock())

	require.NoError(t, scanner.SetMaxBlock(64))
	require.Equal(t, 64, scanner.MaxBlock())

	err := scanner.SetMaxBlock(100)
	require.Error(t, err)
	require.ErrorIs(t, err, bitpool.PowerOfTwoError)

	require.Error(t, scanner.SetMaxBlock(1))
	require.Error(t, scanner.SetMaxBlock(0))
	require.Equal(t, 64, scanner.MaxBlock())
}

func TestScannerValidate(t *testing.T) {
	vec := bitvec.New(50)
	scanner := region.NewScanner(vec, region.BestFit)
	require.NoError(t, scanner.Validate())

	scanner.SetStrategy(region.NextFit)
	vec.SetRange(0, 10, true)
	require.NotEqual(t, region.NotFound, scanner.ScanAndFlip(0, 5, false))
	require.NoError(t, scanner.Validate())
}
