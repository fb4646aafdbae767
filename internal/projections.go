package internal

import "time"

// periodMonthlyOccurrence is how many times a period recurs per month.
var periodMonthlyOccurrence = map[Period]float64{
	PeriodDaily:                 30.0,
	PeriodWeekly:                52.0 / 12,
	PeriodBiweekly:              26.0 / 12,
	PeriodMonthly:               1.0,
	PeriodTwoMonths:             1.0 / 2,
	PeriodQuarterly:             1.0 / 3,
	PeriodFourToSixMonths:       1.0 / 5,
	PeriodSemiyearly:            1.0 / 6,
	PeriodSevenToTwelveMonths:   1.0 / 9,
	PeriodYearly:                1.0 / 12,
	PeriodThirteenToTwentyThree: 1.0 / 18,
	PeriodBiennial:              1.0 / 24,
}

// MonthlyOccurrence returns how many times a period recurs in one month.
func MonthlyOccurrence(p Period) float64 {
	return periodMonthlyOccurrence[p]
}

// NextExpectedDate projects when a recurring flow should next occur, given
// its last observed record date and dominant period.
func NextExpectedDate(lastDate time.Time, p Period) time.Time {
	days := PeriodDays(p)
	if days == 0 || lastDate.IsZero() {
		return time.Time{}
	}
	return lastDate.AddDate(0, 0, days)
}
