package region_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memkit/bitpool/bitvec"
	"github.com/memkit/bitpool/region"
)

func TestFirstFitSkipsLeadingUsed(t *testing.T) {
	vec := bitvec.New(20)
	vec.SetAll(true)
	vec.SetRange(5, 5, false)

	scanner := region.NewScanner(vec, region.FirstFit)
	require.Equal(t, 5, scanner.Scan(0, 3, false))
}

func TestFirstFitHonorsStart(t *testing.T) {
	vec := bitvec.New(20)
	scanner := region.NewScanner(vec, region.FirstFit)

	require.Equal(t, 0, scanner.Scan(0, 3, false))
	require.Equal(t, 7, scanner.Scan(7, 3, false))
	require.Equal(t, 17, scanner.Scan(17, 3, false))
	require.Equal(t, region.NotFound, scanner.Scan(18, 3, false))
}

func TestFirstFitScansForSetRuns(t *testing.T) {
	vec := bitvec.New(20)
	vec.SetRange(4, 3, true)

	scanner := region.NewScanner(vec, region.FirstFit)
	require.Equal(t, 4, scanner.Scan(0, 3, true))
	require.Equal(t, region.NotFound, scanner.Scan(0, 4, true))
}

func TestFirstFitNoFit(t *testing.T) {
	vec := bitvec.New(20)
	vec.SetAll(true)
	vec.Reset(3)
	vec.Reset(10)
	vec.Reset(11)

	scanner := region.NewScanner(vec, region.FirstFit)
	require.Equal(t, 10, scanner.Scan(0, 2, false))
	require.Equal(t, region.NotFound, scanner.Scan(0, 3, false))
}

func TestNextFitSequentialAllocations(t *testing.T) {
	vec := bitvec.New(10)
	scanner := region.NewScanner(vec, region.NextFit)

	require.Equal(t, 0, scanner.ScanAndFlip(0, 2, false))
	require.Equal(t, 2, scanner.ScanAndFlip(0, 2, false))
	require.Equal(t, 4, scanner.ScanAndFlip(0, 2, false))
}

func TestNextFitWrap(t *testing.T) {
	vec := bitvec.New(10)
	scanner := region.NewScanner(vec, region.NextFit)

	// Walk the cursor up to 4, then occupy everything above it and reopen
	// [0, 2). The only fit now sits below the cursor.
	require.Equal(t, 0, scanner.ScanAndFlip(0, 2, false))
	require.Equal(t, 2, scanner.ScanAndFlip(0, 2, false))
	require.Equal(t, 4, scanner.ScanAndFlip(0, 2, false))
	vec.SetRange(6, 4, true)
	vec.SetRange(0, 2, false)

	require.Equal(t, 0, scanner.Scan(0, 2, false))
}

func TestNextFitWrapRevisitsCursor(t *testing.T) {
	vec := bitvec.New(10)
	vec.SetAll(true)
	vec.SetRange(4, 2, false)

	scanner := region.NewScanner(vec, region.NextFit)
	require.Equal(t, 4, scanner.ScanAndFlip(0, 2, false))

	// Freeing the cursor's own spot again: the next scan must revisit that
	// index rather than resume past it.
	vec.SetRange(4, 2, false)
	require.Equal(t, 4, scanner.Scan(0, 2, false))
}

func TestNextFitScannersAreIndependent(t *testing.T) {
	vec := bitvec.New(10)
	vec.SetRange(0, 4, true)

	first := region.NewScanner(vec, region.NextFit)
	require.Equal(t, 4, first.Scan(0, 2, false))

	vec.SetRange(0, 2, false)

	// first resumes at its cursor and never looks back at [0, 2); a fresh
	// scanner starts from the bottom and finds it immediately.
	second := region.NewScanner(vec, region.NextFit)
	require.Equal(t, 4, first.Scan(0, 2, false))
	require.Equal(t, 0, second.Scan(0, 2, false))
}

func TestNextFitExhausted(t *testing.T) {
	vec := bitvec.New(10)
	vec.SetAll(true)

	scanner := region.NewScanner(vec, region.NextFit)
	require.Equal(t, region.NotFound, scanner.Scan(0, 2, false))
}
