package internal

import (
	"fmt"
	"time"
)

// TimingResult describes the periodicity of a record set's dates.
//
// The winning bucket is the one holding the most gap observations; the
// largest-gap bucket is the highest-valued nonempty one. They can differ
// when a long-tail outlier gap exists, and the outlier must not redefine the
// dominant period.
type TimingResult struct {
	Sufficient bool
	Messages   []string

	Period           Period // dominant period (winning bucket)
	TypicalGap       int    // largest gap, in days, within the winning bucket
	LargestGap       int    // largest gap, in days, within the largest-gap bucket
	LargestGapPeriod Period

	FirstDate   time.Time
	LastDate    time.Time
	RecordCount int
	GapCounts   map[Period]int
}

// AnalyzeTiming bins the day-gaps between consecutive record dates into the
// fixed period buckets and picks out the dominant period. Fewer than two
// records is an insufficient-data result, not an error.
func AnalyzeTiming(records []*Record) TimingResult {
	result := TimingResult{RecordCount: len(records)}

	if len(records) < 2 {
		result.Messages = append(result.Messages,
			fmt.Sprintf("timing needs at least 2 records to bin gaps, have %d", len(records)))
		return result
	}

	sorted := make([]*Record, len(records))
	copy(sorted, records)
	sortRecordsDateAsc(sorted)

	result.FirstDate = sorted[0].TransactionDate
	result.LastDate = sorted[len(sorted)-1].TransactionDate

	counts := map[Period]int{}
	bucketMax := map[Period]int{}
	for i := 1; i < len(sorted); i++ {
		gap := daysBetween(sorted[i-1].TransactionDate, sorted[i].TransactionDate)
		bucket := BucketForGap(gap)
		counts[bucket]++
		if gap > bucketMax[bucket] {
			bucketMax[bucket] = gap
		}
	}
	result.GapCounts = counts

	// Winning bucket: most observations. Walk the ladder in order so ties
	// resolve to the shorter period deterministically.
	best := 0
	for _, pr := range periodDayRanges {
		if counts[pr.period] > best {
			best = counts[pr.period]
			result.Period = pr.period
		}
	}
	result.TypicalGap = bucketMax[result.Period]

	// Largest-gap bucket: highest nonempty.
	for _, pr := range periodDayRanges {
		if counts[pr.period] > 0 {
			result.LargestGapPeriod = pr.period
			result.LargestGap = bucketMax[pr.period]
		}
	}

	result.Sufficient = true
	return result
}

// daysBetween returns whole days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
