// Package service holds the record and taxonomy stores: in-memory collections
// that are re-serialized in full to a repository.KV on every mutation.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/veriuser/internal/errs"
	"github.com/and161185/veriuser/internal/model"
	"github.com/and161185/veriuser/internal/repository"
)

// maxIDAttempts bounds the retry-until-unique loops of Create and Taxonomy.Add.
const maxIDAttempts = 10000

// RecordStore defines operations over verification records.
type RecordStore interface {
	// Create validates fields, assigns a fresh id and CreatedAt, and persists.
	Create(ctx context.Context, fields model.RecordFields, patents []model.PatentClaim) (model.Record, error)
	// Update replaces the editable fields of an existing record, keeping ID and CreatedAt.
	Update(ctx context.Context, id string, fields model.RecordFields, patents []model.PatentClaim) (model.Record, error)
	// Delete removes a record.
	Delete(ctx context.Context, id string) error
	// Get returns a single record.
	Get(id string) (model.Record, error)
	// List returns records matching filter in insertion order.
	List(filter model.RecordFilter) []model.Record
	// Replace swaps the whole collection (import).
	Replace(ctx context.Context, records []model.Record) error
}

type RecordServiceImpl struct {
	kv   repository.KV
	opts options

	mu      sync.RWMutex
	records []model.Record
}

var _ RecordStore = (*RecordServiceImpl)(nil)

// NewRecordService constructs an empty store; call Load before use.
func NewRecordService(kv repository.KV, opts ...Option) *RecordServiceImpl {
	return &RecordServiceImpl{kv: kv, opts: buildOptions(opts), records: []model.Record{}}
}

// Load reads the collection from the KV. A missing key yields an empty collection.
func (s *RecordServiceImpl) Load(ctx context.Context) error {
	b, err := s.kv.Load(ctx, repository.KeyUsers)
	if errors.Is(err, errs.ErrNotFound) {
		s.mu.Lock()
		s.records = []model.Record{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	var recs []model.Record
	if err := json.Unmarshal(b, &recs); err != nil {
		return fmt.Errorf("load records: decode: %w", err)
	}
	if recs == nil {
		recs = []model.Record{}
	}
	s.mu.Lock()
	s.records = recs
	s.mu.Unlock()
	return nil
}

// Create validates input and appends a new record.
// Validation rules:
// - owner, username, status not blank
// - blank patent claims are dropped
func (s *RecordServiceImpl) Create(ctx context.Context, fields model.RecordFields, patents []model.PatentClaim) (model.Record, error) {
	if err := validateFields(fields); err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.freshID()
	if err != nil {
		return model.Record{}, err
	}
	rec := applyFields(model.Record{
		ID:        id,
		CreatedAt: s.opts.clock.Now().UTC().Truncate(time.Millisecond),
	}, fields)
	rec.Patents = cleanClaims(patents, s.opts.entityID)

	next := append(slices.Clip(s.records), rec)
	if err := s.commit(ctx, next); err != nil {
		return model.Record{}, err
	}
	s.opts.log.Debug("record created", zap.String("id", rec.ID), zap.String("status", rec.Status))
	return rec.Clone(), nil
}

// Update replaces the editable fields of the record with the given id.
func (s *RecordServiceImpl) Update(ctx context.Context, id string, fields model.RecordFields, patents []model.PatentClaim) (model.Record, error) {
	if err := validateFields(fields); err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Record{}, fmt.Errorf("record %s: %w", id, errs.ErrNotFound)
	}
	old := s.records[i]
	rec := applyFields(model.Record{ID: old.ID, CreatedAt: old.CreatedAt}, fields)
	rec.Patents = cleanClaims(patents, s.opts.entityID)

	next := slices.Clone(s.records)
	next[i] = rec
	if err := s.commit(ctx, next); err != nil {
		return model.Record{}, err
	}
	s.opts.log.Debug("record updated", zap.String("id", rec.ID))
	return rec.Clone(), nil
}

// Delete removes the record with the given id.
func (s *RecordServiceImpl) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("record %s: %w", id, errs.ErrNotFound)
	}
	next := slices.Delete(slices.Clone(s.records), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.opts.log.Debug("record deleted", zap.String("id", id))
	return nil
}

// Get returns a copy of the record with the given id.
func (s *RecordServiceImpl) Get(id string) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Record{}, fmt.Errorf("record %s: %w", id, errs.ErrNotFound)
	}
	return s.records[i].Clone(), nil
}

// List returns copies of the matching records in insertion order.
func (s *RecordServiceImpl) List(filter model.RecordFilter) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		if filter.Match(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Replace swaps the whole collection. Blank claims are dropped and duplicate
// or empty ids are rejected.
func (s *RecordServiceImpl) Replace(ctx context.Context, records []model.Record) error {
	next := make([]model.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("validation: record[%d] empty id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("validation: record[%d] duplicate id %s", i, r.ID)
		}
		seen[r.ID] = struct{}{}
		r.Patents = cleanClaims(r.Patents, s.opts.entityID)
		next = append(next, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.opts.log.Debug("records replaced", zap.Int("count", len(next)))
	return nil
}

// commit persists next and only then makes it the current collection.
// Caller holds s.mu.
func (s *RecordServiceImpl) commit(ctx context.Context, next []model.Record) error {
	b, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.kv.Save(ctx, repository.KeyUsers, b); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	s.records = next
	return nil
}

func (s *RecordServiceImpl) indexOf(id string) int {
	return slices.IndexFunc(s.records, func(r model.Record) bool { return r.ID == id })
}

func (s *RecordServiceImpl) freshID() (string, error) {
	taken := make(map[string]struct{}, len(s.records))
	for _, r := range s.records {
		taken[r.ID] = struct{}{}
	}
	for range maxIDAttempts {
		id := s.opts.recordID()
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}
	return "", errs.ErrIDSpaceExhausted
}

func validateFields(f model.RecordFields) error {
	var missing []string
	if strings.TrimSpace(f.Owner) == "" {
		missing = append(missing, "owner")
	}
	if strings.TrimSpace(f.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(f.Status) == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return &errs.ValidationError{Fields: missing}
	}
	return nil
}

func applyFields(r model.Record, f model.RecordFields) model.Record {
	r.Owner = f.Owner
	r.Username = f.Username
	r.ChannelOrProfile = f.ChannelOrProfile
	r.Age = f.Age
	r.Reason = f.Reason
	r.Status = f.Status
	r.StatusNote = f.StatusNote
	r.OtherSocialNetworks = f.OtherSocialNetworks
	r.PhotoRef = f.PhotoRef
	return r
}

// cleanClaims drops blank claims, keeps order and assigns ids to new ones.
func cleanClaims(in []model.PatentClaim, newID func() string) []model.PatentClaim {
	out := make([]model.PatentClaim, 0, len(in))
	for _, p := range in {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		if p.ID == "" {
			p.ID = newID()
		}
		out = append(out, p)
	}
	return out
}
