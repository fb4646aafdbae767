package internal

import "github.com/rs/zerolog"

// Engine ties the store, cache and analyzers together for whole-dataset
// passes.
type Engine struct {
	store *Store
	cache Cache
	log   zerolog.Logger
}

func NewEngine(store *Store, cache Cache, log zerolog.Logger) *Engine {
	return &Engine{store: store, cache: cache, log: log}
}

func (e *Engine) Store() *Store { return e.store }

// RefreshRuleSet recomputes one rule set's statistics over the records it
// matches that are not already claimed by a higher-precedence rule set, and
// rebuilds its ProtoTransaction.
func (e *Engine) RefreshRuleSet(rs *TransactionRuleSet) RuleSetStats {
	matched := EvaluateRuleSet(rs, e.store)

	priority := rs.Priority
	index := BuildRuleIndex(e.store, e.cache, RuleIndexFilter{LessThanPriority: &priority}, e.log)
	pared, _ := FilterAccountedRecords(matched, index, e.log)

	stats := ComputeRuleSetStats(pared, e.store, e.log)
	RefreshProtoTransaction(rs, stats)
	e.store.SaveRuleSet(rs)
	return stats
}

// RefreshAll recomputes statistics for every rule set in priority order, so
// each set's claims are settled before lower-precedence sets are evaluated.
func (e *Engine) RefreshAll() {
	for _, rs := range e.store.RuleSets() {
		e.RefreshRuleSet(rs)
	}
}

// AutoGroup synthesizes rule sets for unclaimed records and returns the
// ones it created.
func (e *Engine) AutoGroup() []*TransactionRuleSet {
	return NewGrouper(e.store, e.cache, e.log).Run()
}

// RuleMembershipIndex exposes the record-to-rule-set index across every
// rule set, for presentation layers.
func (e *Engine) RuleMembershipIndex() RuleIndex {
	return BuildRuleIndex(e.store, e.cache, RuleIndexFilter{}, e.log)
}
