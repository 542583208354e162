package bitpool

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned, possibly wrapped, from CheckPow2 and the
// configuration setters built on it when the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")
