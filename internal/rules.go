package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownRecordField is returned when a rule names a field outside the
// closed accessor set. Unknown fields are rejected when the rule is
// validated, not when it is evaluated.
var ErrUnknownRecordField = errors.New("unknown record field")

// ErrUnknownMatchOperator is returned for an operator outside the rule
// language.
var ErrUnknownMatchOperator = errors.New("unknown match operator")

// FieldFullDescription is the synthetic field that expands into the record's
// own description OR-ed with its meta's description. The expansion happens
// at combination time; combining it with AND across multiple rules remains a
// documented gap in the rule language, reproduced here rather than repaired.
const FieldFullDescription = "full_description"

// fieldAccessor extracts the comparable values for a field. Most fields
// yield one value; full_description yields two, and a rule on it holds when
// the predicate holds on either.
type fieldAccessor func(r *Record, meta *RecordMeta) []string

var recordFieldAccessors = map[string]fieldAccessor{
	"transaction_date": func(r *Record, _ *RecordMeta) []string {
		return []string{r.TransactionDate.Format("2006-01-02")}
	},
	"post_date": func(r *Record, _ *RecordMeta) []string {
		if r.PostDate.IsZero() {
			return nil
		}
		return []string{r.PostDate.Format("2006-01-02")}
	},
	"description": func(r *Record, _ *RecordMeta) []string {
		return []string{r.Description}
	},
	"amount": func(r *Record, _ *RecordMeta) []string {
		return []string{r.Amount.String()}
	},
	FieldFullDescription: func(r *Record, meta *RecordMeta) []string {
		values := []string{r.Description}
		if meta != nil && meta.Description != "" {
			values = append(values, meta.Description)
		}
		return values
	},
}

// RecordFields returns the names of the fields a rule may target.
func RecordFields() []string {
	fields := make([]string, 0, len(recordFieldAccessors))
	for name := range recordFieldAccessors {
		fields = append(fields, name)
	}
	return fields
}

// ValidateRule rejects rules targeting unknown fields, using unknown
// operators, or carrying an uncompilable regex value.
func ValidateRule(rule TransactionRule) error {
	if _, ok := recordFieldAccessors[rule.RecordField]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRecordField, rule.RecordField)
	}
	switch rule.MatchOperator {
	case OpLessThan, OpEquals, OpGreaterThan, OpContains:
	case OpRegex:
		if _, err := regexp.Compile("(?i)" + rule.MatchValue); err != nil {
			return fmt.Errorf("invalid regex %q: %w", rule.MatchValue, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMatchOperator, rule.MatchOperator)
	}
	switch rule.Inclusion {
	case InclusionFilter, InclusionExclude, "":
	default:
		return fmt.Errorf("unknown inclusion %q", rule.Inclusion)
	}
	return nil
}

// matchOperator applies one operator to a single field value.
func matchOperator(op MatchOperator, value, matchValue string) bool {
	switch op {
	case OpEquals:
		return value == matchValue
	case OpLessThan:
		return compareValues(value, matchValue) < 0
	case OpGreaterThan:
		return compareValues(value, matchValue) > 0
	case OpContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(matchValue))
	case OpRegex:
		re, err := regexp.Compile("(?i)" + matchValue)
		if err != nil {
			return false
		}
		return re.MatchString(value)
	}
	return false
}

// compareValues compares numerically when both sides parse as numbers,
// lexically otherwise.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// MatchRule evaluates one rule against a record, before inclusion is
// applied. A rule on full_description holds when either expanded value
// matches.
func MatchRule(rule TransactionRule, r *Record, meta *RecordMeta) bool {
	accessor := recordFieldAccessors[rule.RecordField]
	if accessor == nil {
		return false
	}
	for _, value := range accessor(r, meta) {
		if matchOperator(rule.MatchOperator, value, rule.MatchValue) {
			return true
		}
	}
	return false
}

// ruleHolds applies the rule's inclusion: filter means the predicate must
// hold, exclude means it must not.
func ruleHolds(rule TransactionRule, r *Record, meta *RecordMeta) bool {
	matched := MatchRule(rule, r, meta)
	if rule.Inclusion == InclusionExclude {
		return !matched
	}
	return matched
}

// EvaluateRuleSet returns the records satisfying the rule set's combined
// predicate, ordered by transaction date descending. A rule set with no
// rules matches nothing.
func EvaluateRuleSet(rs *TransactionRuleSet, store *Store) []*Record {
	if len(rs.Rules) == 0 {
		return nil
	}

	var matched []*Record
	for _, r := range store.Records() {
		meta := store.MetaForRecord(r)
		if ruleSetHolds(rs, r, meta) {
			matched = append(matched, r)
		}
	}
	return matched
}

func ruleSetHolds(rs *TransactionRuleSet, r *Record, meta *RecordMeta) bool {
	if rs.JoinOperator == JoinOr {
		for _, rule := range rs.Rules {
			if ruleHolds(rule, r, meta) {
				return true
			}
		}
		return false
	}
	for _, rule := range rs.Rules {
		if !ruleHolds(rule, r, meta) {
			return false
		}
	}
	return true
}
