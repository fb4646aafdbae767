package internal

import (
	"errors"
	"testing"
)

func filterRule(field string, op MatchOperator, value string) TransactionRule {
	return TransactionRule{RecordField: field, Inclusion: InclusionFilter, MatchOperator: op, MatchValue: value}
}

func TestEvaluateRuleSetContains(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")

	addRecord(t, store, u, "2025-01-15", "NETFLIX.COM", -15.49)
	addRecord(t, store, u, "2025-02-15", "Netflix Inc", -15.49)
	addRecord(t, store, u, "2025-02-20", "GIANT EAGLE", -82.10)

	rs := &TransactionRuleSet{
		Name:         "streaming",
		JoinOperator: JoinAnd,
		Rules:        []TransactionRule{filterRule("description", OpContains, "netflix")},
	}

	matched := EvaluateRuleSet(rs, store)
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}
	// Date descending.
	if matched[0].Description != "Netflix Inc" || matched[1].Description != "NETFLIX.COM" {
		t.Errorf("unexpected match order: %q, %q", matched[0].Description, matched[1].Description)
	}
}

func TestEvaluateRuleSetNoRulesMatchesNothing(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")
	addRecord(t, store, u, "2025-01-15", "NETFLIX.COM", -15.49)

	rs := &TransactionRuleSet{Name: "empty", JoinOperator: JoinAnd}
	if matched := EvaluateRuleSet(rs, store); len(matched) != 0 {
		t.Errorf("rule set with no rules matched %d records", len(matched))
	}
}

func TestEvaluateRuleSetExclude(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")

	addRecord(t, store, u, "2025-01-15", "NETFLIX.COM", -15.49)
	addRecord(t, store, u, "2025-02-20", "GIANT EAGLE", -82.10)

	rs := &TransactionRuleSet{
		Name:         "not streaming",
		JoinOperator: JoinAnd,
		Rules: []TransactionRule{{
			RecordField:   "description",
			Inclusion:     InclusionExclude,
			MatchOperator: OpContains,
			MatchValue:    "netflix",
		}},
	}

	matched := EvaluateRuleSet(rs, store)
	if len(matched) != 1 || matched[0].Description != "GIANT EAGLE" {
		t.Errorf("exclude rule matched %d records", len(matched))
	}
}

func TestJoinOperators(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")

	addRecord(t, store, u, "2025-01-15", "NETFLIX.COM", -15.49)
	addRecord(t, store, u, "2025-02-15", "NETFLIX.COM", -25.00)
	addRecord(t, store, u, "2025-02-20", "GIANT EAGLE", -82.10)

	tests := []struct {
		name    string
		join    JoinOperator
		rules   []TransactionRule
		matched int
	}{
		{
			name: "and narrows",
			join: JoinAnd,
			rules: []TransactionRule{
				filterRule("description", OpContains, "netflix"),
				filterRule("amount", OpLessThan, "-20"),
			},
			matched: 1,
		},
		{
			name: "or widens",
			join: JoinOr,
			rules: []TransactionRule{
				filterRule("description", OpContains, "netflix"),
				filterRule("description", OpContains, "eagle"),
			},
			matched: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := &TransactionRuleSet{Name: tt.name, JoinOperator: tt.join, Rules: tt.rules}
			if got := EvaluateRuleSet(rs, store); len(got) != tt.matched {
				t.Errorf("matched %d records, want %d", len(got), tt.matched)
			}
		})
	}
}

func TestAmountComparesNumerically(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")

	addRecord(t, store, u, "2025-01-15", "SMALL", -9.00)
	addRecord(t, store, u, "2025-01-16", "BIG", -100.00)

	// Lexically "-100" > "-9"; numerically the opposite.
	rs := &TransactionRuleSet{
		Name:         "under ten",
		JoinOperator: JoinAnd,
		Rules:        []TransactionRule{filterRule("amount", OpGreaterThan, "-10")},
	}

	matched := EvaluateRuleSet(rs, store)
	if len(matched) != 1 || matched[0].Description != "SMALL" {
		t.Errorf("expected numeric comparison to match only SMALL, got %d records", len(matched))
	}
}

func TestFullDescriptionExpandsMeta(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")

	r := addRecord(t, store, u, "2025-01-15", "CHK 2201", -1200)
	meta := store.MetaForRecord(r)
	meta.Description = "Rent payment"
	store.SaveMeta(meta)

	rs := &TransactionRuleSet{
		Name:         "rent",
		JoinOperator: JoinAnd,
		Rules:        []TransactionRule{filterRule(FieldFullDescription, OpContains, "rent")},
	}

	matched := EvaluateRuleSet(rs, store)
	if len(matched) != 1 {
		t.Errorf("full_description did not reach the meta description, matched %d", len(matched))
	}
}

func TestRegexCaseInsensitive(t *testing.T) {
	store, _ := newTestStore()
	u := addUpload(store, "checking")
	addRecord(t, store, u, "2025-01-15", "Spotify P2BC1A", -10.99)

	rs := &TransactionRuleSet{
		Name:         "spotify",
		JoinOperator: JoinAnd,
		Rules:        []TransactionRule{filterRule("description", OpRegex, `^SPOTIFY\s`)},
	}

	if matched := EvaluateRuleSet(rs, store); len(matched) != 1 {
		t.Errorf("case-insensitive regex matched %d records, want 1", len(matched))
	}
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		rule    TransactionRule
		wantErr error
	}{
		{
			name: "valid contains",
			rule: filterRule("description", OpContains, "netflix"),
		},
		{
			name:    "unknown field",
			rule:    filterRule("merchant", OpContains, "netflix"),
			wantErr: ErrUnknownRecordField,
		},
		{
			name:    "unknown operator",
			rule:    filterRule("description", "startswith", "netflix"),
			wantErr: ErrUnknownMatchOperator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(tt.rule)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateRule(filterRule("description", OpRegex, "([")); err == nil {
		t.Errorf("uncompilable regex accepted")
	}
}
