// Package pool hands out runs of units from a fixed-size span backed by a bit
// vector. A Pool pairs a region.Scanner with the tracking, locking, statistics,
// and leak reporting that the raw scan primitives leave to their callers.
package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dolthub/swiss"
	"github.com/pkg/errors"

	"github.com/memkit/bitpool"
	"github.com/memkit/bitpool/bitvec"
	"github.com/memkit/bitpool/region"
)

var (
	// ErrNoSpace is returned from Alloc when no free run can hold the request.
	ErrNoSpace = errors.New("pool: no free run large enough for the allocation")
	// ErrBadFree is returned from Free when no live allocation starts at the
	// given index.
	ErrBadFree = errors.New("pool: free of an unknown allocation")
)

// CreateOptions contains settings for creating a Pool. Units is required; the
// remaining fields may be left blank.
type CreateOptions struct {
	// Units is the number of allocatable units the pool manages.
	Units int
	// Strategy selects how allocations are placed. It must be one of the
	// region.Strategy constants; the zero value is region.FirstFit.
	Strategy region.Strategy
	// Logger receives debug-level operation logs and error-level leak reports.
	// When nil, slog.Default() is used.
	Logger *slog.Logger
}

// Pool allocates runs of units out of a fixed span, identified by the index of
// their first unit. A unit is free when its bit is clear. The pool owns its
// vector exclusively, and an internal mutex serializes each scan-and-flip pair,
// so a single Pool is safe for concurrent use.
type Pool struct {
	logger *slog.Logger

	mutex       sync.Mutex
	vec         *bitvec.Vector
	scanner     *region.Scanner
	allocations *swiss.Map[int, int]
	destroyed   bool
}

// New creates a Pool managing options.Units units, all free.
func New(options CreateOptions) (*Pool, error) {
	if options.Units < 1 {
		return nil, errors.Errorf("pool: unit count %d is not positive", options.Units)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	vec := bitvec.New(options.Units)
	return &Pool{
		logger:      logger,
		vec:         vec,
		scanner:     region.NewScanner(vec, options.Strategy),
		allocations: swiss.NewMap[int, int](42),
	}, nil
}

// Alloc claims count contiguous free units, marks them allocated, and returns
// the index of the first. The allocation stays tracked until Free.
func (p *Pool) Alloc(count int) (int, error) {
	p.logger.Debug("Pool::Alloc")

	if count < 1 {
		return 0, errors.Errorf("pool: allocation size %d is not positive", count)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.checkLive("Alloc")

	idx := p.scanner.ScanAndFlip(0, count, false)
	if idx == region.NotFound {
		return 0, errors.Wrapf(ErrNoSpace, "%d units requested", count)
	}

	p.allocations.Put(idx, count)
	p.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Placed allocation",
		slog.Int("start", idx),
		slog.Int("units", count))

	return idx, nil
}

// Free releases the allocation that starts at start, clearing its units.
func (p *Pool) Free(start int) error {
	p.logger.Debug("Pool::Free")

	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.checkLive("Free")

	count, ok := p.allocations.Get(start)
	if !ok {
		return errors.Wrapf(ErrBadFree, "no allocation starts at unit %d", start)
	}
	if !p.vec.All(start, count) {
		return errors.Errorf("pool: allocation [%d, %d) has units that are already clear", start, start+count)
	}

	p.vec.SetRange(start, count, false)
	p.allocations.Delete(start)
	p.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Released allocation",
		slog.Int("start", start),
		slog.Int("units", count))

	return nil
}

// UnitCount returns the total number of units the pool manages.
func (p *Pool) UnitCount() int {
	return p.vec.Len()
}

// AllocationCount returns the number of live allocations.
func (p *Pool) AllocationCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.allocations.Count()
}

// FreeUnits returns the number of units not held by any allocation.
func (p *Pool) FreeUnits() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.vec.CountRange(0, p.vec.Len(), false)
}

// IsEmpty reports whether the pool has no live allocations.
func (p *Pool) IsEmpty() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.allocations.Count() == 0
}

// Strategy returns the placement strategy for new allocations.
func (p *Pool) Strategy() region.Strategy {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.scanner.Strategy()
}

// SetStrategy switches the placement strategy for subsequent allocations.
// Existing allocations are unaffected.
func (p *Pool) SetStrategy(strategy region.Strategy) {
	p.logger.Debug("Pool::SetStrategy")

	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.scanner.SetStrategy(strategy)
}

// VisitAllocations invokes visit for every live allocation in ascending start
// order. It stops at the first error and returns it.
func (p *Pool) VisitAllocations(visit func(start, count int) error) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.visitSorted(visit)
}

// Destroy tears the pool down. Every allocation must already have been freed:
// any that remain are logged at error level and Destroy fails without
// releasing anything. Using the pool after a successful Destroy panics.
func (p *Pool) Destroy() error {
	p.logger.Debug("Pool::Destroy")
	bitpool.DebugValidate(p)

	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.checkLive("Destroy")

	if p.allocations.Count() > 0 {
		// Log all remaining allocations
		_ = p.visitSorted(func(start, count int) error {
			p.logUnreleasedUnits(start, count)
			return nil
		})

		return errors.New("some allocations were not freed before the destruction of this pool")
	}

	p.destroyed = true
	return nil
}

func (p *Pool) logUnreleasedUnits(start, count int) {
	p.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED UNITS] unfreed allocation",
		slog.Int("start", start),
		slog.Int("units", count),
	)
}

// Validate checks the pool's bookkeeping against its vector: every tracked
// allocation lies in range, overlaps no other, and is fully marked, and the
// marked-unit total matches the tracking map. When the implementation is
// functioning correctly, it should not be possible for this method to return
// an error.
func (p *Pool) Validate() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if err := p.vec.Validate(); err != nil {
		return err
	}
	if err := p.scanner.Validate(); err != nil {
		return err
	}

	tracked := 0
	prevEnd := 0
	err := p.visitSorted(func(start, count int) error {
		if count < 1 {
			return errors.Errorf("allocation at unit %d has size %d", start, count)
		}
		if start < 0 || start+count > p.vec.Len() {
			return errors.Errorf("allocation [%d, %d) lies outside the %d-unit pool", start, start+count, p.vec.Len())
		}
		if start < prevEnd {
			return errors.Errorf("allocation at unit %d overlaps its predecessor", start)
		}
		if !p.vec.All(start, count) {
			return errors.Errorf("allocation [%d, %d) has units that are not marked", start, start+count)
		}

		prevEnd = start + count
		tracked += count
		return nil
	})
	if err != nil {
		return err
	}

	marked := p.vec.CountRange(0, p.vec.Len(), true)
	if marked != tracked {
		return errors.Errorf("%d units are marked but allocations track %d", marked, tracked)
	}

	return nil
}

// visitSorted walks the tracking map in ascending start order. The caller must
// hold the mutex.
func (p *Pool) visitSorted(visit func(start, count int) error) error {
	starts := make([]int, 0, p.allocations.Count())
	p.allocations.Iter(func(start, _ int) bool {
		starts = append(starts, start)
		return false
	})
	sort.Ints(starts)

	for _, start := range starts {
		count, _ := p.allocations.Get(start)
		if err := visit(start, count); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pool) checkLive(op string) {
	if p.destroyed {
		panic(fmt.Sprintf("pool: %s called on a destroyed pool", op))
	}
}
