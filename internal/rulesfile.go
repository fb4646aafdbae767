package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RuleSetFile is the YAML document holding user-authored rule sets.
//
// Example:
//
//	rule_sets:
//	  - name: Streaming
//	    priority: 1
//	    join: or
//	    rules:
//	      - field: description
//	        operator: contains
//	        value: netflix
//	      - field: description
//	        operator: regex
//	        value: "HBO\\s*MAX"
type RuleSetFile struct {
	RuleSets []RuleSetDef `yaml:"rule_sets"`
}

// RuleSetDef is one user-authored rule set definition.
type RuleSetDef struct {
	Name     string    `yaml:"name"`
	Priority int       `yaml:"priority"`
	Join     string    `yaml:"join,omitempty"` // "and" (default) or "or"
	Rules    []RuleDef `yaml:"rules"`
}

// RuleDef is one predicate within a rule set definition.
type RuleDef struct {
	Field     string `yaml:"field"`
	Operator  string `yaml:"operator"`
	Value     string `yaml:"value"`
	Inclusion string `yaml:"inclusion,omitempty"` // "filter" (default) or "exclude"
}

// LoadRuleSets parses and validates a rule set definitions file. Every rule
// is validated up front; an unknown field or operator fails the whole load
// rather than surfacing at evaluation time.
func LoadRuleSets(path string) ([]*TransactionRuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	var file RuleSetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}

	var ruleSets []*TransactionRuleSet
	for _, def := range file.RuleSets {
		rs, err := ruleSetFromDef(def)
		if err != nil {
			return nil, fmt.Errorf("rule set %q: %w", def.Name, err)
		}
		ruleSets = append(ruleSets, rs)
	}
	return ruleSets, nil
}

func ruleSetFromDef(def RuleSetDef) (*TransactionRuleSet, error) {
	join := JoinOperator(def.Join)
	switch join {
	case "":
		join = JoinAnd
	case JoinAnd, JoinOr:
	default:
		return nil, fmt.Errorf("unknown join operator %q", def.Join)
	}

	rs := &TransactionRuleSet{
		Name:         def.Name,
		Priority:     def.Priority,
		JoinOperator: join,
	}
	for _, rd := range def.Rules {
		inclusion := Inclusion(rd.Inclusion)
		if inclusion == "" {
			inclusion = InclusionFilter
		}
		rule := TransactionRule{
			RecordField:   rd.Field,
			Inclusion:     inclusion,
			MatchOperator: MatchOperator(rd.Operator),
			MatchValue:    rd.Value,
		}
		if err := ValidateRule(rule); err != nil {
			return nil, err
		}
		rs.Rules = append(rs.Rules, rule)
	}
	return rs, nil
}

// SaveRuleSets writes rule sets back out as a YAML definitions file,
// creating parent directories as needed. Auto rule sets are included so a
// synthesized grouping can be promoted to a manual one by editing the file.
func SaveRuleSets(path string, ruleSets []*TransactionRuleSet) error {
	file := RuleSetFile{}
	for _, rs := range ruleSets {
		def := RuleSetDef{
			Name:     rs.Name,
			Priority: rs.Priority,
			Join:     string(rs.JoinOperator),
		}
		for _, r := range rs.Rules {
			def.Rules = append(def.Rules, RuleDef{
				Field:     r.RecordField,
				Operator:  string(r.MatchOperator),
				Value:     r.MatchValue,
				Inclusion: string(r.Inclusion),
			})
		}
		file.RuleSets = append(file.RuleSets, def)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("marshaling rules file: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing rules file: %w", err)
	}
	return nil
}
