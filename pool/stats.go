package pool

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/memkit/bitpool"
)

// AddDetailedStatistics accumulates the pool's allocation and free-run
// accounting into stats. Allocation sizes come from the tracking map; free
// runs are measured from the vector.
func (p *Pool) AddDetailedStatistics(stats *bitpool.DetailedStatistics) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.addDetailedStatistics(stats)
}

func (p *Pool) addDetailedStatistics(stats *bitpool.DetailedStatistics) {
	stats.VectorCount++
	stats.UnitCount += p.vec.Len()

	p.allocations.Iter(func(_, count int) bool {
		stats.AddAllocation(count)
		return false
	})

	for start := 0; start < p.vec.Len(); {
		if p.vec.Test(start) {
			start++
			continue
		}

		end := start + 1
		for end < p.vec.Len() && !p.vec.Test(end) {
			end++
		}
		stats.AddFreeRun(end - start)
		start = end
	}
}

// BuildStatsString writes a json document describing the pool's state to
// writer: its strategy, roll-up statistics, and every live allocation in
// ascending start order.
func (p *Pool) BuildStatsString(writer *jwriter.Writer) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	var stats bitpool.DetailedStatistics
	stats.Clear()
	p.addDetailedStatistics(&stats)

	obj := writer.Object()
	defer obj.End()

	obj.Name("Strategy").String(p.scanner.Strategy().String())
	stats.PrintJson(obj)

	arrayState := obj.Name("Allocations").Array()
	defer arrayState.End()

	_ = p.visitSorted(func(start, count int) error {
		alloc := arrayState.Object()
		defer alloc.End()

		alloc.Name("Start").Int(start)
		alloc.Name("Units").Int(count)
		return nil
	})
}

// StatsString renders the BuildStatsString document to a string.
func (p *Pool) StatsString() (string, error) {
	writer := jwriter.NewWriter()
	p.BuildStatsString(&writer)

	if err := writer.Error(); err != nil {
		return "", err
	}
	return string(writer.Bytes()), nil
}
