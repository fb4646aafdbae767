package internal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is a normalized bank or credit card transaction.
type Record struct {
	ID              uuid.UUID
	UploadID        uuid.UUID
	TransactionDate time.Time
	PostDate        time.Time
	Description     string
	Amount          decimal.Decimal
	Extras          map[string]string

	// RawDataLine is the original source line, when the ingestion format
	// preserves one. Its hash is immutable once stored.
	RawDataLine string

	CoreFieldsHash  string
	ExtraFieldsHash string
	RawDataLineHash string
}

// RecordType classifies what a record represents, independent of which
// rule sets claim it.
type RecordType string

const (
	RecordTypeUnknown  RecordType = ""
	RecordTypeIncome   RecordType = "income"
	RecordTypeExpense  RecordType = "expense"
	RecordTypeInternal RecordType = "internal"
	RecordTypeTransfer RecordType = "transfer"
	RecordTypeRefund   RecordType = "refund"
)

// TaxCategory is the tax treatment of a record, carried on its meta.
type TaxCategory string

const (
	TaxCategoryNone        TaxCategory = "none"
	TaxCategoryTax         TaxCategory = "tax"
	TaxCategoryUtility     TaxCategory = "utility"
	TaxCategoryRepair      TaxCategory = "repair"
	TaxCategoryMaintenance TaxCategory = "maintenance"
	TaxCategoryInsurance   TaxCategory = "insurance"
)

// RecordMeta is a deduplicated annotation shared by all records with the same
// content hash. Keyed by raw-line hash when one exists, core-fields hash
// otherwise. Several records may map onto one meta.
type RecordMeta struct {
	Hash        string
	RecordType  RecordType
	Property    string
	Vehicle     string
	Event       string
	Target      string
	Description string
	Detail      string
	TaxCategory TaxCategory
}

// Upload identifies one ingested source file and the account or credit card
// it belongs to. Its date range drives last-common-date computation.
type Upload struct {
	ID               uuid.UUID
	AccountName      string
	CreditCardName   string
	OriginalFilename string
	FirstDate        time.Time
	LastDate         time.Time
	RecordCount      int
}

// SourceName returns the account or credit card this upload belongs to.
func (u *Upload) SourceName() string {
	if u.AccountName != "" {
		return u.AccountName
	}
	return u.CreditCardName
}

// JoinOperator combines the rules of a rule set.
type JoinOperator string

const (
	JoinAnd JoinOperator = "and"
	JoinOr  JoinOperator = "or"
)

// Inclusion says whether a rule's predicate keeps or drops matching records.
type Inclusion string

const (
	InclusionFilter  Inclusion = "filter"
	InclusionExclude Inclusion = "exclude"
)

// MatchOperator is the human-facing comparison operator of a rule.
type MatchOperator string

const (
	OpLessThan    MatchOperator = "<"
	OpEquals      MatchOperator = "="
	OpGreaterThan MatchOperator = ">"
	OpContains    MatchOperator = "contains"
	OpRegex       MatchOperator = "regex"
)

// TransactionRule is a single field/operator/value predicate.
type TransactionRule struct {
	RecordField   string
	Inclusion     Inclusion
	MatchOperator MatchOperator
	MatchValue    string
}

// TransactionRuleSet is a named, prioritized collection of rules joined with
// one operator. Lower priority numbers claim records first. Auto rule sets
// are synthesized by the grouper rather than authored by the user.
type TransactionRuleSet struct {
	ID           uuid.UUID
	Name         string
	Priority     int
	JoinOperator JoinOperator
	IsAuto       bool
	Rules        []TransactionRule
	Proto        *ProtoTransaction
}

// Direction is the net flow of a rule set.
type Direction string

const (
	DirectionCredit        Direction = "credit"
	DirectionDebit         Direction = "debit"
	DirectionBidirectional Direction = "bidirectional"
)

// TransactionType is the guessed budget category of a rule set.
type TransactionType string

const (
	TransactionTypeUnknown    TransactionType = "unknown"
	TransactionTypeSingle     TransactionType = "single"
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeUtility    TransactionType = "utility"
	TransactionTypeDebt       TransactionType = "debt"
	TransactionTypeCreditCard TransactionType = "creditcard"
)

// Criticality is how negotiable a recurring flow is.
type Criticality string

const (
	CriticalityUnknown  Criticality = ""
	CriticalityCritical Criticality = "critical"
	CriticalityFlexible Criticality = "flexible"
	CriticalityOptional Criticality = "optional"
)

// TimingLabel is the coarse timing class of a rule set's records.
type TimingLabel string

const (
	TimingPeriodic        TimingLabel = "periodic"
	TimingChaoticFrequent TimingLabel = "chaotic-frequent"
	TimingChaoticRare     TimingLabel = "chaotic-rare"
	TimingSingle          TimingLabel = "single"
)

// ProtoTransaction is the statistical summary attached to a rule set. The
// Stats payload is rebuilt wholesale on every refresh; fields declared here
// are promoted out of it and the remainder stays in Stats.Extra.
type ProtoTransaction struct {
	Name            string
	TransactionType TransactionType
	Period          Period
	Direction       Direction
	Criticality     Criticality
	Stats           RuleSetStats
}
