package bitpool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memkit/bitpool"
)

func TestNextPow2(t *testing.T) {
	cases := map[int]int{
		0:    1,
		1:    1,
		2:    2,
		3:    4,
		4:    4,
		5:    8,
		7:    8,
		8:    8,
		9:    16,
		512:  512,
		513:  1024,
		1000: 1024,
	}

	for input, expected := range cases {
		require.Equal(t, expected, bitpool.NextPow2(input), "NextPow2(%d)", input)
	}

	require.Equal(t, uint64(16), bitpool.NextPow2(uint64(11)))
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, bitpool.CheckPow2(1, "block size"))
	require.NoError(t, bitpool.CheckPow2(2, "block size"))
	require.NoError(t, bitpool.CheckPow2(256, "block size"))

	err := bitpool.CheckPow2(100, "block size")
	require.ErrorIs(t, err, bitpool.PowerOfTwoError)
	require.ErrorContains(t, err, "block size is 100")

	require.ErrorIs(t, bitpool.CheckPow2(3, "alignment"), bitpool.PowerOfTwoError)
}
