package internal

import (
	"path/filepath"
	"testing"
)

func TestLoadRuleSets(t *testing.T) {
	content := `rule_sets:
  - name: Streaming
    priority: 1
    join: or
    rules:
      - field: description
        operator: contains
        value: netflix
      - field: description
        operator: contains
        value: hulu
  - name: Everything else expensive
    priority: 2
    rules:
      - field: amount
        operator: <
        value: "-500"
      - field: description
        operator: contains
        value: transfer
        inclusion: exclude
`
	ruleSets, err := LoadRuleSets(writeTempFile(t, "rules.yaml", content))
	if err != nil {
		t.Fatal(err)
	}
	if len(ruleSets) != 2 {
		t.Fatalf("loaded %d rule sets, want 2", len(ruleSets))
	}

	streaming := ruleSets[0]
	if streaming.Name != "Streaming" || streaming.Priority != 1 {
		t.Errorf("first rule set = %q priority %d", streaming.Name, streaming.Priority)
	}
	if streaming.JoinOperator != JoinOr {
		t.Errorf("join = %q, want or", streaming.JoinOperator)
	}
	if len(streaming.Rules) != 2 {
		t.Errorf("streaming has %d rules, want 2", len(streaming.Rules))
	}

	expensive := ruleSets[1]
	if expensive.JoinOperator != JoinAnd {
		t.Errorf("omitted join = %q, want the and default", expensive.JoinOperator)
	}
	if expensive.Rules[0].Inclusion != InclusionFilter {
		t.Errorf("omitted inclusion = %q, want the filter default", expensive.Rules[0].Inclusion)
	}
	if expensive.Rules[1].Inclusion != InclusionExclude {
		t.Errorf("inclusion = %q, want exclude", expensive.Rules[1].Inclusion)
	}
}

func TestLoadRuleSetsRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown field",
			content: `rule_sets:
  - name: Bad
    rules:
      - field: merchant
        operator: contains
        value: x
`,
		},
		{
			name: "unknown operator",
			content: `rule_sets:
  - name: Bad
    rules:
      - field: description
        operator: startswith
        value: x
`,
		},
		{
			name: "unknown join",
			content: `rule_sets:
  - name: Bad
    join: xor
    rules:
      - field: description
        operator: contains
        value: x
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadRuleSets(writeTempFile(t, "rules.yaml", tt.content)); err == nil {
				t.Errorf("expected load to fail")
			}
		})
	}
}

func TestSaveRuleSetsRoundTrip(t *testing.T) {
	original := []*TransactionRuleSet{{
		Name:         "Streaming",
		Priority:     1,
		JoinOperator: JoinOr,
		Rules: []TransactionRule{
			filterRule("description", OpContains, "netflix"),
		},
	}}

	path := filepath.Join(t.TempDir(), "nested", "rules.yaml")
	if err := SaveRuleSets(path, original); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadRuleSets(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("round trip lost rule sets: %d", len(loaded))
	}
	got := loaded[0]
	if got.Name != "Streaming" || got.Priority != 1 || got.JoinOperator != JoinOr {
		t.Errorf("round trip changed the rule set header: %+v", got)
	}
	if len(got.Rules) != 1 || got.Rules[0] != original[0].Rules[0] {
		t.Errorf("round trip changed the rules: %+v", got.Rules)
	}
}
