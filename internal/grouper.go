package internal

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// stopWords end description truncation: a rule matching only one of these
// would sweep up unrelated records.
var stopWords = map[string]bool{"the": true, "to": true, "a": true}

// Grouper synthesizes rule sets for records no existing rule set claims. It
// tries each distinct description, first as an exact match and then as
// progressively shorter contains-matches, and keeps the first attempt whose
// statistics are sufficient.
type Grouper struct {
	store *Store
	cache Cache
	log   zerolog.Logger
}

func NewGrouper(store *Store, cache Cache, log zerolog.Logger) *Grouper {
	return &Grouper{store: store, cache: cache, log: log}
}

// ruleAttempt is one candidate rule for a description.
type ruleAttempt struct {
	rule     TransactionRule
	modified bool // true when the description was truncated
}

// attemptsFor builds the attempt sequence for a description: exact match
// first, then contains-matches on right-truncations. A truncation first
// strips a trailing digit run off the final word (vendor suffixes like
// "MKTPL*1234" become "MKTPL*"), then drops the word entirely. Truncation
// stops when only a stop word, or nothing, remains.
func attemptsFor(description string) []ruleAttempt {
	attempts := []ruleAttempt{{
		rule: TransactionRule{
			RecordField:   "description",
			Inclusion:     InclusionFilter,
			MatchOperator: OpEquals,
			MatchValue:    description,
		},
	}}

	words := strings.Fields(description)
	for len(words) > 0 {
		last := words[len(words)-1]
		if stripped := strings.TrimRightFunc(last, unicode.IsDigit); stripped != last && stripped != "" {
			candidate := strings.Join(append(append([]string{}, words[:len(words)-1]...), stripped), " ")
			attempts = append(attempts, ruleAttempt{
				rule: TransactionRule{
					RecordField:   "description",
					Inclusion:     InclusionFilter,
					MatchOperator: OpContains,
					MatchValue:    candidate,
				},
				modified: true,
			})
		}

		words = words[:len(words)-1]
		if len(words) == 0 {
			break
		}
		if len(words) == 1 && stopWords[strings.ToLower(words[0])] {
			break
		}
		attempts = append(attempts, ruleAttempt{
			rule: TransactionRule{
				RecordField:   "description",
				Inclusion:     InclusionFilter,
				MatchOperator: OpContains,
				MatchValue:    strings.Join(words, " "),
			},
			modified: true,
		})
	}

	return attempts
}

// Run executes the fixed-point grouping loop and returns the rule sets it
// created. It terminates when a full pass over the remaining descriptions
// accepts nothing from a truncated description; runtime is unbounded by
// design and the loop always runs to completion.
func (g *Grouper) Run() []*TransactionRuleSet {
	var created []*TransactionRuleSet

	for {
		restarted := false

		for _, description := range g.unclaimedDescriptions() {
			rs, modified := g.tryDescription(description)
			if rs == nil {
				continue
			}
			created = append(created, rs)
			if modified {
				// Truncation may have claimed records belonging to other
				// pending descriptions; re-enumerate from scratch.
				restarted = true
				break
			}
		}

		if !restarted {
			break
		}
	}

	g.log.Info().Int("created", len(created)).Msg("auto-grouping complete")
	return created
}

// tryDescription creates a placeholder rule set for one description and
// works through its attempts. Returns the accepted rule set and whether the
// accepted attempt used a truncated description, or nil when every attempt
// fails (the placeholder is deleted).
func (g *Grouper) tryDescription(description string) (*TransactionRuleSet, bool) {
	rs := g.store.SaveRuleSet(&TransactionRuleSet{
		Name:         description,
		Priority:     g.store.NextPriority(),
		JoinOperator: JoinAnd,
		IsAuto:       true,
	})

	for _, attempt := range attemptsFor(description) {
		rs.Rules = []TransactionRule{attempt.rule}
		g.store.SaveRuleSet(rs)

		matched := EvaluateRuleSet(rs, g.store)
		priority := rs.Priority
		index := BuildRuleIndex(g.store, g.cache, RuleIndexFilter{LessThanPriority: &priority}, g.log)
		pared, _ := FilterAccountedRecords(matched, index, g.log)

		stats := ComputeRuleSetStats(pared, g.store, g.log)
		if statsSufficientForAuto(stats) {
			RefreshProtoTransaction(rs, stats)
			g.store.SaveRuleSet(rs)
			g.log.Info().
				Str("name", rs.Name).
				Str("rule", attempt.rule.MatchValue).
				Bool("truncated", attempt.modified).
				Int("records", stats.RecordCount).
				Msg("accepted auto rule set")
			return rs, attempt.modified
		}

		// Failed attempt: drop the trial rule and try the next truncation.
		rs.Rules = nil
		g.store.SaveRuleSet(rs)
	}

	g.store.DeleteRuleSet(rs.ID)
	return nil, false
}

// statsSufficientForAuto is the acceptance checklist for a synthesized rule
// set: every required field must be truthy.
func statsSufficientForAuto(stats RuleSetStats) bool {
	return stats.TimingIsActive &&
		stats.AmountIsActive &&
		stats.RecurringAmount != 0 &&
		stats.TransactionType != TransactionTypeUnknown &&
		stats.TransactionType != "" &&
		stats.Period != PeriodUnknown &&
		stats.RecordCount > 0
}

// unclaimedDescriptions enumerates the distinct descriptions among records
// not claimed by any rule set, skipping internal and transfer records.
// Sorted for deterministic passes.
func (g *Grouper) unclaimedDescriptions() []string {
	index := BuildRuleIndex(g.store, g.cache, RuleIndexFilter{}, g.log)

	seen := map[string]bool{}
	var descriptions []string
	for _, r := range g.store.Records() {
		if _, claimed := index[r.ID]; claimed {
			continue
		}
		if meta := g.store.MetaForRecord(r); meta != nil {
			if meta.RecordType == RecordTypeInternal || meta.RecordType == RecordTypeTransfer {
				continue
			}
		}
		if r.Description == "" || seen[r.Description] {
			continue
		}
		seen[r.Description] = true
		descriptions = append(descriptions, r.Description)
	}

	sort.Strings(descriptions)
	return descriptions
}
