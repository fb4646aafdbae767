package internal

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RuleSetStats is the full statistics payload for one rule set. Keys the
// engine computes that match a declared field live in that field; anything
// else a computation wants to carry rides in Extra. The payload is rebuilt
// wholesale on every refresh, never patched.
type RuleSetStats struct {
	Sufficient bool
	Messages   []string

	RecordCount int
	FirstDate   time.Time
	LastDate    time.Time

	TimingLabel     TimingLabel
	Period          Period
	TransactionType TransactionType
	Direction       Direction

	TimingIsActive bool
	AmountIsActive bool
	IsActive       bool

	// RecurringAmount is the dominant direction's average per dominant
	// period; MonthlyAmount is the same rate over 30 days.
	RecurringAmount float64
	MonthlyAmount   float64

	Accounts    []string
	CreditCards []string

	Credit *FlowStats
	Debit  *FlowStats

	Extra map[string]any
}

// ComputeRuleSetStats runs the timing and amount analyzers over a rule
// set's (already pared) records and combines the results into one payload.
// Fewer than two records short-circuits to insufficient without running the
// analyzers.
func ComputeRuleSetStats(records []*Record, store *Store, log zerolog.Logger) RuleSetStats {
	stats := RuleSetStats{
		RecordCount: len(records),
		Extra:       map[string]any{},
	}

	stats.Accounts, stats.CreditCards = contributingSources(records, store)

	if len(records) < 2 {
		stats.Messages = append(stats.Messages,
			fmt.Sprintf("need at least 2 records for statistics, have %d", len(records)))
		if len(records) == 1 {
			stats.TimingLabel = TimingSingle
			stats.FirstDate = records[0].TransactionDate
			stats.LastDate = records[0].TransactionDate
		}
		return stats
	}

	timing := AnalyzeTiming(records)
	stats.FirstDate = timing.FirstDate
	stats.LastDate = timing.LastDate
	stats.Period = timing.Period
	stats.TimingLabel = timingLabel(timing)

	credits, debits := SplitByDirection(records)
	if len(credits) > 0 {
		stats.Credit = AnalyzeFlow(credits, store)
		stats.Messages = append(stats.Messages, prefixMessages("credit", stats.Credit.Messages)...)
	}
	if len(debits) > 0 {
		stats.Debit = AnalyzeFlow(debits, store)
		stats.Messages = append(stats.Messages, prefixMessages("debit", stats.Debit.Messages)...)
	}

	stats.Direction = CombineDirection(stats.Credit, stats.Debit)

	dominant := stats.Debit
	if stats.Direction == DirectionCredit {
		dominant = stats.Credit
	}
	if dominant != nil {
		stats.TimingIsActive = dominant.IsActive
		stats.AmountIsActive = dominant.Sufficient
		stats.RecurringAmount = dominant.AverageForPeriod
		stats.MonthlyAmount = dominant.AverageForMonth
		stats.IsActive = dominant.IsActive && dominant.Sufficient
	}

	stats.TransactionType = guessTransactionType(stats)
	stats.Sufficient = stats.AmountIsActive

	log.Debug().
		Int("records", stats.RecordCount).
		Str("period", string(stats.Period)).
		Str("direction", string(stats.Direction)).
		Str("timing", string(stats.TimingLabel)).
		Bool("active", stats.IsActive).
		Msg("computed rule set stats")

	return stats
}

// timingLabel classifies the gap histogram: periodic when the winning bucket
// holds at least half of all gaps, otherwise chaotic, split on whether the
// dominant cadence is monthly-or-faster.
func timingLabel(timing TimingResult) TimingLabel {
	total := 0
	for _, n := range timing.GapCounts {
		total += n
	}
	if total == 0 {
		return TimingSingle
	}
	if timing.GapCounts[timing.Period]*2 >= total {
		return TimingPeriodic
	}
	if days := PeriodDays(timing.Period); days > 0 && days <= PeriodDays(PeriodMonthly) {
		return TimingChaoticFrequent
	}
	return TimingChaoticRare
}

// guessTransactionType infers a budget category from timing and direction.
// Only periodic flows earn a definite guess.
func guessTransactionType(stats RuleSetStats) TransactionType {
	switch stats.TimingLabel {
	case TimingSingle:
		return TransactionTypeSingle
	case TimingPeriodic:
		if stats.Direction == DirectionCredit {
			return TransactionTypeIncome
		}
		return TransactionTypeUtility
	}
	return TransactionTypeUnknown
}

func prefixMessages(prefix string, messages []string) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, prefix+": "+m)
	}
	return out
}

func contributingSources(records []*Record, store *Store) (accounts, creditCards []string) {
	seenAccounts := map[string]bool{}
	seenCards := map[string]bool{}
	for _, r := range records {
		u := store.Upload(r.UploadID)
		if u == nil {
			continue
		}
		if u.AccountName != "" && !seenAccounts[u.AccountName] {
			seenAccounts[u.AccountName] = true
			accounts = append(accounts, u.AccountName)
		}
		if u.CreditCardName != "" && !seenCards[u.CreditCardName] {
			seenCards[u.CreditCardName] = true
			creditCards = append(creditCards, u.CreditCardName)
		}
	}
	return accounts, creditCards
}

// RefreshProtoTransaction rebuilds a rule set's ProtoTransaction from fresh
// stats, creating it when absent. Declared fields are promoted out of the
// payload; the stored direction is only overwritten when it differs from
// the computed one and is not already bidirectional, which is sticky.
func RefreshProtoTransaction(rs *TransactionRuleSet, stats RuleSetStats) *ProtoTransaction {
	proto := rs.Proto
	if proto == nil {
		proto = &ProtoTransaction{Name: rs.Name}
		rs.Proto = proto
	}

	proto.Stats = stats
	proto.Period = stats.Period
	proto.TransactionType = stats.TransactionType

	if proto.Direction != DirectionBidirectional && proto.Direction != stats.Direction {
		proto.Direction = stats.Direction
	}

	return proto
}
