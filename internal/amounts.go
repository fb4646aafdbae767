package internal

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const secondsPerDay = 86400.0

// FlowStats is the windowed dollar-flow summary of one direction (credit or
// debit) of a rule set's records.
type FlowStats struct {
	Sufficient bool
	Messages   []string

	RecordCount    int
	Timing         TimingResult
	WindowPeriod   Period // the window the averaging settled on
	LastCommonDate time.Time

	// Rate is dollars per second over the accepted window.
	Rate             float64
	AverageForPeriod float64 // rate projected onto the dominant period
	AverageForMonth  float64 // rate projected onto 30 days

	// IsActive is deliberately permissive: a gap explained by either the
	// typical cadence or the largest gap ever observed does not mark the
	// flow inactive, so incomplete recent uploads don't produce false
	// inactives.
	IsActive bool
}

// SplitByDirection separates records into credits (amount > 0) and debits
// (amount < 0). Zero amounts belong to neither.
func SplitByDirection(records []*Record) (credits, debits []*Record) {
	for _, r := range records {
		switch {
		case r.Amount.IsPositive():
			credits = append(credits, r)
		case r.Amount.IsNegative():
			debits = append(debits, r)
		}
	}
	return credits, debits
}

// LastCommonDate returns the latest date covered by upload data shared by
// every account or card contributing to the given records: the minimum of
// each contributor's own latest-upload date. A gap that is merely a missing
// future upload then never reads as inactivity.
func LastCommonDate(records []*Record, store *Store) time.Time {
	latestBySource := map[string]time.Time{}
	for _, r := range records {
		u := store.Upload(r.UploadID)
		if u == nil {
			continue
		}
		source := u.SourceName()
		if u.LastDate.After(latestBySource[source]) {
			latestBySource[source] = u.LastDate
		}
	}

	var common time.Time
	for _, latest := range latestBySource {
		if common.IsZero() || latest.Before(common) {
			common = latest
		}
	}
	return common
}

// AnalyzeFlow computes the windowed rate and activity for one direction of a
// rule set's records. Averaging starts one period above the dominant one and
// widens up the ladder until the window holds at least two records and
// covers at least 70% of its nominal span, or the ladder runs out.
func AnalyzeFlow(records []*Record, store *Store) *FlowStats {
	flow := &FlowStats{RecordCount: len(records)}

	if len(records) < 2 {
		flow.Messages = append(flow.Messages,
			fmt.Sprintf("flow needs at least 2 records to average, have %d", len(records)))
		return flow
	}

	flow.Timing = AnalyzeTiming(records)
	if !flow.Timing.Sufficient {
		flow.Messages = append(flow.Messages, flow.Timing.Messages...)
		return flow
	}

	flow.LastCommonDate = LastCommonDate(records, store)
	if flow.LastCommonDate.IsZero() {
		flow.Messages = append(flow.Messages, "no upload coverage for any contributing source")
		return flow
	}

	sorted := make([]*Record, len(records))
	copy(sorted, records)
	sortRecordsDateAsc(sorted)

	window := windowStartFor(flow.Timing.Period)
	for window != PeriodInactive {
		days := PeriodDays(window)
		cutoff := flow.LastCommonDate.AddDate(0, 0, -days)

		var inWindow []*Record
		for _, r := range sorted {
			if !r.TransactionDate.Before(cutoff) {
				inWindow = append(inWindow, r)
			}
		}

		if len(inWindow) >= 2 {
			earliest := inWindow[0].TransactionDate
			covered := daysBetween(earliest, flow.LastCommonDate)
			coverage := float64(covered) / float64(days)
			if coverage >= 0.7 {
				sum := decimal.Zero
				for _, r := range inWindow {
					sum = sum.Add(r.Amount)
				}
				flow.WindowPeriod = window
				flow.Rate = sum.InexactFloat64() / (float64(days) * secondsPerDay)
				flow.AverageForPeriod = flow.Rate * secondsPerDay * float64(PeriodDays(flow.Timing.Period))
				flow.AverageForMonth = flow.Rate * secondsPerDay * 30
				flow.Sufficient = true
				break
			}
			flow.Messages = append(flow.Messages,
				fmt.Sprintf("window %s: %d records but only %d of %d days covered (need 70%%)",
					window, len(inWindow), covered, days))
		} else {
			flow.Messages = append(flow.Messages,
				fmt.Sprintf("window %s: %d records in window, need 2", window, len(inWindow)))
		}
		window = nextPeriodUp(window)
	}

	if !flow.Sufficient {
		flow.Messages = append(flow.Messages,
			"averaging window widened to inactive without meeting coverage criteria")
		return flow
	}

	// Activity: the gap from the last record to the last common date must be
	// under twice the typical gap, or under the largest gap ever observed.
	lastGap := daysBetween(sorted[len(sorted)-1].TransactionDate, flow.LastCommonDate)
	flow.IsActive = lastGap < 2*flow.Timing.TypicalGap || lastGap < flow.Timing.LargestGap
	if !flow.IsActive {
		flow.Messages = append(flow.Messages,
			fmt.Sprintf("last record is %d days behind coverage; typical gap %d, largest %d",
				lastGap, flow.Timing.TypicalGap, flow.Timing.LargestGap))
	}

	return flow
}

// CombineDirection decides the net direction of a rule set from its credit
// and debit monthly averages.
func CombineDirection(credit, debit *FlowStats) Direction {
	creditMonthly := 0.0
	debitMonthly := 0.0
	if credit != nil {
		creditMonthly = math.Abs(credit.AverageForMonth)
	}
	if debit != nil {
		debitMonthly = math.Abs(debit.AverageForMonth)
	}
	if creditMonthly > debitMonthly {
		return DirectionCredit
	}
	return DirectionDebit
}
