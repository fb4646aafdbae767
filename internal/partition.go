package internal

import "github.com/rs/zerolog"

// FilterAccountedRecords splits candidate records into those still available
// to the rule set being evaluated and those already claimed by the index.
// Build the index with LessThanPriority set to the current rule set's
// priority: claims by the current set itself then never disqualify its own
// records, only strictly higher-precedence sets do.
func FilterAccountedRecords(records []*Record, index RuleIndex, log zerolog.Logger) (pared, removed []*Record) {
	for _, r := range records {
		if _, accounted := index[r.ID]; accounted {
			removed = append(removed, r)
		} else {
			pared = append(pared, r)
		}
	}
	log.Info().
		Int("candidates", len(records)).
		Int("pared", len(pared)).
		Int("accounted", len(index)).
		Msg("pared records by accounted claims")
	return pared, removed
}
