package internal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRawLineConflict is returned when a record is re-saved with a raw line
// whose hash differs from the one already stored. The raw line is the
// record's anchor to its source file, so a changed hash means tampering or
// corruption, never a legitimate edit.
var ErrRawLineConflict = errors.New("raw data line hash conflict")

// Store is the in-memory persistence layer for records, metas, uploads and
// rule sets. All saves recompute fingerprints, reconcile record metas, and
// invalidate the cache so no stale membership survives a write.
type Store struct {
	log   zerolog.Logger
	cache Cache

	records  map[uuid.UUID]*Record
	metas    map[string]*RecordMeta
	uploads  map[uuid.UUID]*Upload
	ruleSets map[uuid.UUID]*TransactionRuleSet
}

func NewStore(cache Cache, log zerolog.Logger) *Store {
	return &Store{
		log:      log,
		cache:    cache,
		records:  map[uuid.UUID]*Record{},
		metas:    map[string]*RecordMeta{},
		uploads:  map[uuid.UUID]*Upload{},
		ruleSets: map[uuid.UUID]*TransactionRuleSet{},
	}
}

// SaveUpload stores a source-file identity.
func (s *Store) SaveUpload(u *Upload) *Upload {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.uploads[u.ID] = u
	s.cache.Invalidate()
	return u
}

// Upload returns the upload with the given ID, or nil.
func (s *Store) Upload(id uuid.UUID) *Upload {
	return s.uploads[id]
}

// SaveRecord recomputes the record's content hashes, enforces raw-line
// immutability, reconciles its RecordMeta, stores it, and invalidates the
// cache. Upload date coverage and record counts are maintained as a side
// effect.
func (s *Store) SaveRecord(r *Record) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	r.ExtraFieldsHash = ExtraFieldsHash(r.Extras)
	r.CoreFieldsHash = CoreFieldsHash(r.TransactionDate, r.Description, r.Amount, r.Extras)

	if r.RawDataLine != "" {
		rawHash := RawLineHash(r.RawDataLine)
		if prev, ok := s.records[r.ID]; ok && prev.RawDataLineHash != "" && prev.RawDataLineHash != rawHash {
			return fmt.Errorf("record %s: %w: stored %s, incoming %s",
				r.ID, ErrRawLineConflict, prev.RawDataLineHash, rawHash)
		}
		r.RawDataLineHash = rawHash
	}

	s.reconcileMeta(r)

	_, existed := s.records[r.ID]
	s.records[r.ID] = r

	if u, ok := s.uploads[r.UploadID]; ok {
		if u.FirstDate.IsZero() || r.TransactionDate.Before(u.FirstDate) {
			u.FirstDate = r.TransactionDate
		}
		if r.TransactionDate.After(u.LastDate) {
			u.LastDate = r.TransactionDate
		}
		if !existed {
			u.RecordCount++
		}
	}

	s.cache.Invalidate()
	return nil
}

// reconcileMeta finds or creates the RecordMeta for a record. The raw-line
// hash is the preferred key, the core-fields hash the fallback. When a meta
// already exists under the raw-line hash, unset fields are back-filled from
// the core-hash meta; values already present are never overwritten.
func (s *Store) reconcileMeta(r *Record) {
	coreMeta := s.metas[r.CoreFieldsHash]

	if r.RawDataLineHash == "" {
		if coreMeta == nil {
			s.metas[r.CoreFieldsHash] = &RecordMeta{Hash: r.CoreFieldsHash}
		}
		return
	}

	rawMeta := s.metas[r.RawDataLineHash]
	if rawMeta == nil {
		rawMeta = &RecordMeta{Hash: r.RawDataLineHash}
		s.metas[r.RawDataLineHash] = rawMeta
	}
	if coreMeta != nil {
		backfillMeta(rawMeta, coreMeta)
	}
}

// backfillMeta copies the allow-listed fields from src onto dst, only where
// dst has no value yet.
func backfillMeta(dst, src *RecordMeta) {
	if dst.RecordType == RecordTypeUnknown {
		dst.RecordType = src.RecordType
	}
	if dst.Property == "" {
		dst.Property = src.Property
	}
	if dst.Vehicle == "" {
		dst.Vehicle = src.Vehicle
	}
	if dst.Event == "" {
		dst.Event = src.Event
	}
	if dst.Target == "" {
		dst.Target = src.Target
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.Detail == "" {
		dst.Detail = src.Detail
	}
}

// SaveMeta stores a meta under its hash key.
func (s *Store) SaveMeta(m *RecordMeta) {
	s.metas[m.Hash] = m
	s.cache.Invalidate()
}

// MetaForRecord resolves a record's meta, preferring the raw-line hash key.
func (s *Store) MetaForRecord(r *Record) *RecordMeta {
	if r.RawDataLineHash != "" {
		if m, ok := s.metas[r.RawDataLineHash]; ok {
			return m
		}
	}
	return s.metas[r.CoreFieldsHash]
}

// Records returns all records ordered by transaction date descending.
// Ties break on ID for determinism.
func (s *Store) Records() []*Record {
	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sortRecordsDateDesc(out)
	return out
}

// Record returns the record with the given ID, or nil.
func (s *Store) Record(id uuid.UUID) *Record {
	return s.records[id]
}

// SaveRuleSet stores a rule set, assigning an ID when needed.
func (s *Store) SaveRuleSet(rs *TransactionRuleSet) *TransactionRuleSet {
	if rs.ID == uuid.Nil {
		rs.ID = uuid.New()
	}
	s.ruleSets[rs.ID] = rs
	s.cache.Invalidate()
	return rs
}

// DeleteRuleSet removes a rule set and its proto transaction.
func (s *Store) DeleteRuleSet(id uuid.UUID) {
	delete(s.ruleSets, id)
	s.cache.Invalidate()
}

// RuleSets returns all rule sets ordered by priority ascending, name as a
// tiebreaker.
func (s *Store) RuleSets() []*TransactionRuleSet {
	out := make([]*TransactionRuleSet, 0, len(s.ruleSets))
	for _, rs := range s.ruleSets {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// NextPriority returns a priority below every existing rule set's precedence,
// i.e. one past the current maximum.
func (s *Store) NextPriority() int {
	next := 1
	for _, rs := range s.ruleSets {
		if rs.Priority >= next {
			next = rs.Priority + 1
		}
	}
	return next
}

func sortRecordsDateDesc(records []*Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].TransactionDate.Equal(records[j].TransactionDate) {
			return records[i].TransactionDate.After(records[j].TransactionDate)
		}
		return records[i].ID.String() < records[j].ID.String()
	})
}

func sortRecordsDateAsc(records []*Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].TransactionDate.Equal(records[j].TransactionDate) {
			return records[i].TransactionDate.Before(records[j].TransactionDate)
		}
		return records[i].ID.String() < records[j].ID.String()
	})
}
