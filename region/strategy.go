package region

import (
	"strings"

	"github.com/pkg/errors"
)

// Strategy selects the search algorithm a Scanner uses to locate a run of
// equal-valued bits.
type Strategy uint32

const (
	// FirstFit walks indices ascending from the requested start and returns the
	// first spot where the whole requested run matches.
	FirstFit Strategy = iota
	// NextFit resumes each search at the index of the previous success, wrapping
	// around to the requested start when it runs out of room at the top.
	NextFit
	// BestFit inspects every qualifying run at or after the requested start and
	// returns the one that fits the request with the least space left over.
	BestFit
	// BuddySystem hunts for power-of-two blocks, hopping over occupied stretches
	// in power-of-two strides. It is a heuristic over the raw bit pattern rather
	// than a full buddy allocator: no free-list bookkeeping exists and freed
	// neighbours are never coalesced back into larger blocks.
	BuddySystem
)

var strategyMapping = map[Strategy]string{
	FirstFit:    "FirstFit",
	NextFit:     "NextFit",
	BestFit:     "BestFit",
	BuddySystem: "BuddySystem",
}

func (s Strategy) String() string {
	return strategyMapping[s]
}

// ParseStrategy maps a strategy name, as accepted on command lines, to its
// Strategy value. Matching is case-insensitive and short forms are accepted.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "first", "firstfit":
		return FirstFit, nil
	case "next", "nextfit":
		return NextFit, nil
	case "best", "bestfit":
		return BestFit, nil
	case "buddy", "buddysystem":
		return BuddySystem, nil
	}

	return FirstFit, errors.Errorf("unknown scan strategy %q", name)
}
