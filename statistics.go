package bitpool

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics is a small set of roll-up values describing one or more bit vectors
// and the allocations carved out of them. All sizes are in units (bits), not bytes.
type Statistics struct {
	VectorCount     int
	AllocationCount int
	UnitCount       int
	AllocatedUnits  int
}

func (s *Statistics) Clear() {
	s.VectorCount = 0
	s.AllocationCount = 0
	s.UnitCount = 0
	s.AllocatedUnits = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.VectorCount += other.VectorCount
	s.AllocationCount += other.AllocationCount
	s.UnitCount += other.UnitCount
	s.AllocatedUnits += other.AllocatedUnits
}

// DetailedStatistics extends Statistics with free-run accounting and size extrema.
// Min fields are seeded with math.MaxInt by Clear, so a cleared value with no
// allocations reports a min larger than any max.
type DetailedStatistics struct {
	Statistics
	FreeRunCount      int
	AllocationSizeMin int
	AllocationSizeMax int
	FreeRunSizeMin    int
	FreeRunSizeMax    int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRunCount = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.FreeRunSizeMin = math.MaxInt
	s.FreeRunSizeMax = 0
}

func (s *DetailedStatistics) AddFreeRun(size int) {
	s.FreeRunCount++

	if size < s.FreeRunSizeMin {
		s.FreeRunSizeMin = size
	}

	if size > s.FreeRunSizeMax {
		s.FreeRunSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.AllocationCount++
	s.AllocatedUnits += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeRunCount += other.FreeRunCount

	if other.FreeRunSizeMin < s.FreeRunSizeMin {
		s.FreeRunSizeMin = other.FreeRunSizeMin
	}

	if other.FreeRunSizeMax > s.FreeRunSizeMax {
		s.FreeRunSizeMax = other.FreeRunSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}

// PrintJson populates a json object with this object's statistics
func (s *DetailedStatistics) PrintJson(json jwriter.ObjectState) {
	json.Name("VectorCount").Int(s.VectorCount)
	json.Name("AllocationCount").Int(s.AllocationCount)
	json.Name("UnitCount").Int(s.UnitCount)
	json.Name("AllocatedUnits").Int(s.AllocatedUnits)
	json.Name("FreeUnits").Int(s.UnitCount - s.AllocatedUnits)
	json.Name("FreeRunCount").Int(s.FreeRunCount)

	if s.AllocationCount > 0 {
		json.Name("AllocationSizeMin").Int(s.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(s.AllocationSizeMax)
	}

	if s.FreeRunCount > 0 {
		json.Name("FreeRunSizeMin").Int(s.FreeRunSizeMin)
		json.Name("FreeRunSizeMax").Int(s.FreeRunSizeMax)
	}
}
