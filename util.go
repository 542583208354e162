package bitpool

import (
	"math/bits"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// CheckPow2 returns an error wrapping PowerOfTwoError if the provided number is not
// a power of two. name is used to identify the offending value in the error message.
func CheckPow2[T constraints.Integer](number T, name string) error {
	if number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// NextPow2 returns the smallest power of two greater than or equal to number.
// Values smaller than one round up to one.
func NextPow2[T constraints.Integer](number T) T {
	if number <= 1 {
		return 1
	}
	return T(1) << bits.Len64(uint64(number-1))
}
