package internal

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RuleIndex maps record IDs to the rule sets that claim them. Records
// claimed by no rule set are absent.
type RuleIndex map[uuid.UUID][]uuid.UUID

// RuleIndexFilter narrows which rule sets contribute to an index. A nil
// field means "any".
type RuleIndexFilter struct {
	LessThanPriority *int
	IsAuto           *bool
}

// CacheKey renders the filter the way index entries are cached:
// priority-<n|any>-auto-<true|false|any>.
func (f RuleIndexFilter) CacheKey() string {
	priority := "any"
	if f.LessThanPriority != nil {
		priority = strconv.Itoa(*f.LessThanPriority)
	}
	auto := "any"
	if f.IsAuto != nil {
		if *f.IsAuto {
			auto = "true"
		} else {
			auto = "false"
		}
	}
	return "priority-" + priority + "-auto-" + auto
}

func (f RuleIndexFilter) admits(rs *TransactionRuleSet) bool {
	if f.LessThanPriority != nil && rs.Priority >= *f.LessThanPriority {
		return false
	}
	if f.IsAuto != nil && rs.IsAuto != *f.IsAuto {
		return false
	}
	return true
}

// RuleSetMembers returns the IDs of the records a rule set matches, cached
// per rule set. The cache is wiped on any write, so a hit is always current.
func RuleSetMembers(rs *TransactionRuleSet, store *Store, cache Cache) []uuid.UUID {
	key := cacheKey("ruleset-records", rs.ID)
	if v, ok := cache.Fetch(key); ok {
		if ids, ok := v.([]uuid.UUID); ok {
			return ids
		}
	}
	records := EvaluateRuleSet(rs, store)
	ids := make([]uuid.UUID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	cache.Store(key, ids)
	return ids
}

// BuildRuleIndex computes (or fetches) the record-to-rule-set index across
// all rule sets admitted by the filter.
func BuildRuleIndex(store *Store, cache Cache, filter RuleIndexFilter, log zerolog.Logger) RuleIndex {
	key := cacheKey("rule-index", filter.CacheKey())
	if v, ok := cache.Fetch(key); ok {
		if index, ok := v.(RuleIndex); ok {
			log.Debug().Str("key", key).Msg("rule index cache hit")
			return index
		}
	}
	log.Debug().Str("key", key).Msg("rule index cache miss")

	index := RuleIndex{}
	for _, rs := range store.RuleSets() {
		if !filter.admits(rs) {
			continue
		}
		for _, recordID := range RuleSetMembers(rs, store, cache) {
			index[recordID] = append(index[recordID], rs.ID)
		}
	}

	cache.Store(key, index)
	log.Info().
		Str("key", key).
		Int("records", len(index)).
		Msg("built rule index")
	return index
}
