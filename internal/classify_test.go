package internal

import (
	"fmt"
	"math"
	"testing"
)

func TestComputeRuleSetStatsShortCircuit(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")
	r := addRecord(t, store, u, "2025-01-15", "ONE OFF", -99)

	stats := ComputeRuleSetStats([]*Record{r}, store, NopLogger())

	if stats.Sufficient {
		t.Errorf("single record reported sufficient")
	}
	if stats.TimingLabel != TimingSingle {
		t.Errorf("timing label = %q, want single", stats.TimingLabel)
	}
	if len(stats.Messages) == 0 {
		t.Errorf("expected an insufficient-data message")
	}
	if !stats.FirstDate.Equal(date("2025-01-15")) || !stats.LastDate.Equal(date("2025-01-15")) {
		t.Errorf("date range = %v..%v, want the single record's date", stats.FirstDate, stats.LastDate)
	}
}

func TestComputeRuleSetStatsMonthlyDebit(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")

	var records []*Record
	for m := 1; m <= 12; m++ {
		day := fmt.Sprintf("2025-%02d-01", m)
		records = append(records, addRecord(t, store, u, day, "GYM MEMBERSHIP", -50))
	}

	stats := ComputeRuleSetStats(records, store, NopLogger())

	if !stats.Sufficient {
		t.Fatalf("insufficient: %v", stats.Messages)
	}
	if stats.Period != PeriodMonthly {
		t.Errorf("period = %q, want monthly", stats.Period)
	}
	if stats.TimingLabel != TimingPeriodic {
		t.Errorf("timing label = %q, want periodic", stats.TimingLabel)
	}
	if stats.Direction != DirectionDebit {
		t.Errorf("direction = %q, want debit", stats.Direction)
	}
	if stats.TransactionType != TransactionTypeUtility {
		t.Errorf("transaction type = %q, want utility", stats.TransactionType)
	}
	if math.Abs(stats.MonthlyAmount-(-50)) > 1e-9 {
		t.Errorf("monthly amount = %v, want -50", stats.MonthlyAmount)
	}
	if !stats.IsActive {
		t.Errorf("expected active: %v", stats.Messages)
	}
	if len(stats.Accounts) != 1 || stats.Accounts[0] != "checking" {
		t.Errorf("accounts = %v, want [checking]", stats.Accounts)
	}
}

func TestComputeRuleSetStatsPeriodicCreditIsIncome(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")

	var records []*Record
	for m := 1; m <= 12; m++ {
		day := fmt.Sprintf("2025-%02d-01", m)
		records = append(records, addRecord(t, store, u, day, "PAYROLL", 2500))
	}

	stats := ComputeRuleSetStats(records, store, NopLogger())

	if stats.Direction != DirectionCredit {
		t.Errorf("direction = %q, want credit", stats.Direction)
	}
	if stats.TransactionType != TransactionTypeIncome {
		t.Errorf("transaction type = %q, want income", stats.TransactionType)
	}
}

func TestComputeRuleSetStatsMixedDirections(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")

	// A large monthly debit with a small occasional credit back.
	var records []*Record
	for m := 1; m <= 12; m++ {
		day := fmt.Sprintf("2025-%02d-05", m)
		records = append(records, addRecord(t, store, u, day, "INSURANCE", -200))
	}
	records = append(records,
		addRecord(t, store, u, "2025-03-10", "INSURANCE REFUND", 30),
		addRecord(t, store, u, "2025-09-10", "INSURANCE REFUND", 30),
	)

	stats := ComputeRuleSetStats(records, store, NopLogger())

	if stats.Direction != DirectionDebit {
		t.Errorf("direction = %q, want debit (larger monthly magnitude)", stats.Direction)
	}
	if stats.Credit == nil || stats.Debit == nil {
		t.Fatalf("expected both flow summaries to be computed")
	}
	if stats.MonthlyAmount >= 0 {
		t.Errorf("monthly amount = %v, want the dominant debit rate", stats.MonthlyAmount)
	}
}

func TestTimingLabel(t *testing.T) {
	tests := []struct {
		name string
		days []string
		want TimingLabel
	}{
		{
			name: "periodic",
			days: []string{"2025-01-01", "2025-02-01", "2025-03-01", "2025-04-01"},
			want: TimingPeriodic,
		},
		{
			name: "chaotic frequent",
			days: []string{"2025-01-01", "2025-01-08", "2025-02-07", "2025-05-08", "2026-01-23"},
			want: TimingChaoticFrequent,
		},
		{
			name: "chaotic rare",
			days: []string{"2025-01-01", "2025-04-06", "2025-11-02", "2026-12-07", "2029-01-11"},
			want: TimingChaoticRare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timing := AnalyzeTiming(recordsOnDates(tt.days...))
			if got := timingLabel(timing); got != tt.want {
				t.Errorf("label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRefreshProtoTransactionPromotesFields(t *testing.T) {
	rs := &TransactionRuleSet{Name: "gym"}
	stats := RuleSetStats{
		Period:          PeriodMonthly,
		TransactionType: TransactionTypeUtility,
		Direction:       DirectionDebit,
	}

	proto := RefreshProtoTransaction(rs, stats)

	if rs.Proto != proto {
		t.Errorf("proto not attached to rule set")
	}
	if proto.Period != PeriodMonthly || proto.TransactionType != TransactionTypeUtility {
		t.Errorf("declared fields not promoted: period=%q type=%q", proto.Period, proto.TransactionType)
	}
	if proto.Direction != DirectionDebit {
		t.Errorf("direction = %q, want debit", proto.Direction)
	}
}

func TestRefreshProtoTransactionBidirectionalSticky(t *testing.T) {
	rs := &TransactionRuleSet{
		Name:  "transfers",
		Proto: &ProtoTransaction{Name: "transfers", Direction: DirectionBidirectional},
	}

	RefreshProtoTransaction(rs, RuleSetStats{Direction: DirectionDebit})

	if rs.Proto.Direction != DirectionBidirectional {
		t.Errorf("bidirectional direction overwritten to %q", rs.Proto.Direction)
	}
}

func TestRefreshProtoTransactionReplacesStatsWholesale(t *testing.T) {
	rs := &TransactionRuleSet{
		Name: "gym",
		Proto: &ProtoTransaction{
			Name:  "gym",
			Stats: RuleSetStats{Extra: map[string]any{"stale": true}},
		},
	}

	RefreshProtoTransaction(rs, RuleSetStats{Extra: map[string]any{}})

	if _, ok := rs.Proto.Stats.Extra["stale"]; ok {
		t.Errorf("stale stats key survived a refresh")
	}
}
