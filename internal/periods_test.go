package internal

import "testing"

func TestWindowStartFor(t *testing.T) {
	tests := []struct {
		dominant Period
		want     Period
	}{
		{PeriodDaily, PeriodBiweekly},
		{PeriodWeekly, PeriodMonthly},
		{PeriodMonthly, PeriodQuarterly},
		{PeriodQuarterly, PeriodSemiyearly},
		{PeriodYearly, PeriodBiennial},
		// No fixed mapping: fall back to the next period up the ladder.
		{PeriodThirteenToTwentyThree, PeriodBiennial},
		{PeriodBiennial, PeriodInactive},
	}

	for _, tt := range tests {
		if got := windowStartFor(tt.dominant); got != tt.want {
			t.Errorf("windowStartFor(%q) = %q, want %q", tt.dominant, got, tt.want)
		}
	}
}

func TestNextPeriodUp(t *testing.T) {
	if got := nextPeriodUp(PeriodMonthly); got != PeriodTwoMonths {
		t.Errorf("nextPeriodUp(monthly) = %q, want two-months", got)
	}
	if got := nextPeriodUp(PeriodBiennial); got != PeriodInactive {
		t.Errorf("nextPeriodUp(biennial) = %q, want inactive", got)
	}
	if got := nextPeriodUp(PeriodUnknown); got != PeriodInactive {
		t.Errorf("nextPeriodUp(unknown) = %q, want inactive", got)
	}
}

func TestPeriodDays(t *testing.T) {
	if got := PeriodDays(PeriodMonthly); got != 30 {
		t.Errorf("PeriodDays(monthly) = %d, want 30", got)
	}
	if got := PeriodDays(PeriodInactive); got != 0 {
		t.Errorf("PeriodDays(inactive) = %d, want 0", got)
	}
}
