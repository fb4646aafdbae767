package internal

import (
	"fmt"
	"testing"
)

func TestEngineRefreshRuleSet(t *testing.T) {
	store, cache := newTestStore()
	u := addUpload(store, "checking")

	for m := 1; m <= 12; m++ {
		day := fmt.Sprintf("2025-%02d-01", m)
		addRecord(t, store, u, day, "NETFLIX.COM", -15.49)
	}

	rs := store.SaveRuleSet(&TransactionRuleSet{
		Name: "streaming", Priority: 1, JoinOperator: JoinAnd,
		Rules: []TransactionRule{filterRule("description", OpContains, "netflix")},
	})

	engine := NewEngine(store, cache, NopLogger())
	stats := engine.RefreshRuleSet(rs)

	if !stats.Sufficient {
		t.Fatalf("insufficient: %v", stats.Messages)
	}
	if stats.RecordCount != 12 {
		t.Errorf("record count = %d, want 12", stats.RecordCount)
	}
	if rs.Proto == nil {
		t.Fatalf("refresh did not build a proto transaction")
	}
	if rs.Proto.Period != PeriodMonthly {
		t.Errorf("proto period = %q, want monthly", rs.Proto.Period)
	}
	if rs.Proto.TransactionType != TransactionTypeUtility {
		t.Errorf("proto type = %q, want utility", rs.Proto.TransactionType)
	}
}

func TestEngineRefreshAllHonorsPrecedence(t *testing.T) {
	store, cache := newTestStore()
	u := addUpload(store, "checking")

	for m := 1; m <= 12; m++ {
		day := fmt.Sprintf("2025-%02d-01", m)
		addRecord(t, store, u, day, "AMAZON PRIME", -14.99)
	}

	store.SaveRuleSet(&TransactionRuleSet{
		Name: "prime", Priority: 1, JoinOperator: JoinAnd,
		Rules: []TransactionRule{filterRule("description", OpContains, "prime")},
	})
	broad := store.SaveRuleSet(&TransactionRuleSet{
		Name: "amazon", Priority: 2, JoinOperator: JoinAnd,
		Rules: []TransactionRule{filterRule("description", OpContains, "amazon")},
	})

	engine := NewEngine(store, cache, NopLogger())
	engine.RefreshAll()

	// Every record belongs to the narrower priority-1 set, so the broad set
	// keeps nothing.
	if broad.Proto == nil {
		t.Fatalf("broad set has no proto transaction")
	}
	if got := broad.Proto.Stats.RecordCount; got != 0 {
		t.Errorf("broad set kept %d records, want 0", got)
	}
}

func TestEngineAutoGroupThenRefresh(t *testing.T) {
	store, cache := newTestStore()
	u := addUpload(store, "checking")

	for m := 1; m <= 12; m++ {
		day := fmt.Sprintf("2025-%02d-01", m)
		addRecord(t, store, u, day, "GYM MEMBERSHIP", -35)
	}

	engine := NewEngine(store, cache, NopLogger())
	created := engine.AutoGroup()

	if len(created) != 1 {
		t.Fatalf("auto-grouping created %d rule sets, want 1", len(created))
	}

	// A refresh over the synthesized set reproduces the accepted stats.
	engine.RefreshAll()
	stats := created[0].Proto.Stats
	if !stats.Sufficient || stats.Period != PeriodMonthly {
		t.Errorf("refreshed stats: sufficient=%v period=%q", stats.Sufficient, stats.Period)
	}

	index := engine.RuleMembershipIndex()
	if len(index) != 12 {
		t.Errorf("membership index claims %d records, want 12", len(index))
	}
}
