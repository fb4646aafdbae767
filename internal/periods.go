package internal

import "math"

// Period names a recurrence interval. The day ranges binning inter-record
// gaps into periods and the averaging-window ladder are fixed constants;
// downstream consumers depend on the exact edges.
type Period string

const (
	PeriodUnknown               Period = ""
	PeriodDaily                 Period = "daily"
	PeriodWeekly                Period = "weekly"
	PeriodBiweekly              Period = "bi-weekly"
	PeriodMonthly               Period = "monthly"
	PeriodTwoMonths             Period = "two-months"
	PeriodQuarterly             Period = "quarterly"
	PeriodFourToSixMonths       Period = "four-to-six-months"
	PeriodSemiyearly            Period = "semi-yearly"
	PeriodSevenToTwelveMonths   Period = "seven-to-twelve-months"
	PeriodYearly                Period = "yearly"
	PeriodThirteenToTwentyThree Period = "thirteen-to-twenty-three-months"
	PeriodBiennial              Period = "biennial"
	PeriodInactive              Period = "inactive"
)

type periodDayRange struct {
	period Period
	lo     int // inclusive
	hi     int // exclusive
}

// periodDayRanges bins a day-gap between consecutive records into a period.
var periodDayRanges = []periodDayRange{
	{PeriodDaily, 0, 5},
	{PeriodWeekly, 5, 10},
	{PeriodBiweekly, 10, 20},
	{PeriodMonthly, 20, 40},
	{PeriodTwoMonths, 40, 75},
	{PeriodQuarterly, 75, 105},
	{PeriodFourToSixMonths, 105, 160},
	{PeriodSemiyearly, 160, 200},
	{PeriodSevenToTwelveMonths, 200, 300},
	{PeriodYearly, 300, 430},
	{PeriodThirteenToTwentyThree, 430, 700},
	{PeriodBiennial, 700, 760},
	{PeriodInactive, 760, math.MaxInt},
}

// periodDays is the nominal length of each period in days, used for
// averaging-window coverage and for projecting rates onto a period.
var periodDays = map[Period]int{
	PeriodDaily:                 1,
	PeriodWeekly:                7,
	PeriodBiweekly:              14,
	PeriodMonthly:               30,
	PeriodTwoMonths:             60,
	PeriodQuarterly:             90,
	PeriodFourToSixMonths:       150,
	PeriodSemiyearly:            180,
	PeriodSevenToTwelveMonths:   270,
	PeriodYearly:                365,
	PeriodThirteenToTwentyThree: 540,
	PeriodBiennial:              730,
}

// averagingWindowStart maps a dominant period to the window period the
// amount analyzer starts averaging over: one step wide enough to hold at
// least two occurrences.
var averagingWindowStart = map[Period]Period{
	PeriodDaily:               PeriodBiweekly,
	PeriodWeekly:              PeriodMonthly,
	PeriodBiweekly:            PeriodTwoMonths,
	PeriodMonthly:             PeriodQuarterly,
	PeriodQuarterly:           PeriodSemiyearly,
	PeriodFourToSixMonths:     PeriodYearly,
	PeriodSemiyearly:          PeriodThirteenToTwentyThree,
	PeriodSevenToTwelveMonths: PeriodBiennial,
	PeriodYearly:              PeriodBiennial,
}

// BucketForGap returns the period whose day range contains the given gap.
func BucketForGap(days int) Period {
	for _, pr := range periodDayRanges {
		if days >= pr.lo && days < pr.hi {
			return pr.period
		}
	}
	return PeriodInactive
}

// nextPeriodUp returns the next wider period on the ladder, ending at
// PeriodInactive.
func nextPeriodUp(p Period) Period {
	for i, pr := range periodDayRanges {
		if pr.period == p {
			if i+1 < len(periodDayRanges) {
				return periodDayRanges[i+1].period
			}
			return PeriodInactive
		}
	}
	return PeriodInactive
}

// windowStartFor returns the initial averaging window for a dominant period.
// Periods without a fixed mapping fall back to the next period up the ladder.
func windowStartFor(dominant Period) Period {
	if w, ok := averagingWindowStart[dominant]; ok {
		return w
	}
	return nextPeriodUp(dominant)
}

// PeriodDays returns the nominal day length of a period, or 0 for periods
// without a finite length (unknown, inactive).
func PeriodDays(p Period) int {
	return periodDays[p]
}
