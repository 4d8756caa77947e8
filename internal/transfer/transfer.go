// Package transfer exports and imports the combined JSON document holding all
// three collections.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/veriuser/internal/errs"
	"github.com/and161185/veriuser/internal/lifecycle"
	"github.com/and161185/veriuser/internal/model"
)

// Records is the part of the record store used by transfer.
type Records interface {
	List(filter model.RecordFilter) []model.Record
	Replace(ctx context.Context, records []model.Record) error
}

// Collection is the part of a taxonomy store used by transfer.
type Collection[T any] interface {
	List() []T
	Replace(ctx context.Context, items []T) error
}

// Service moves snapshots in and out of the stores.
type Service struct {
	records    Records
	statuses   Collection[model.StatusDefinition]
	categories Collection[model.CategoryDefinition]
	clock      lifecycle.Clock
	log        *zap.Logger
}

// New constructs a transfer service. Nil clock and logger get defaults.
func New(
	records Records,
	statuses Collection[model.StatusDefinition],
	categories Collection[model.CategoryDefinition],
	clock lifecycle.Clock,
	log *zap.Logger,
) *Service {
	if clock == nil {
		clock = lifecycle.SystemClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{records: records, statuses: statuses, categories: categories, clock: clock, log: log}
}

// FileName returns the default export file name for the given day.
func FileName(t time.Time) string {
	return "veriuser_export_" + t.UTC().Format("2006-01-02") + ".json"
}

// Export returns the current collections stamped with the export time.
func (s *Service) Export() model.Snapshot {
	return model.Snapshot{
		Users:      s.records.List(model.RecordFilter{}),
		Statuses:   s.statuses.List(),
		Categories: s.categories.List(),
		ExportDate: s.clock.Now().UTC().Truncate(time.Millisecond),
	}
}

// WriteExport writes Export() as indented JSON.
func (s *Service) WriteExport(w io.Writer) (model.Snapshot, error) {
	snap := s.Export()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("write export: %w", err)
	}
	return snap, nil
}

// Result reports which collections an import replaced; -1 means untouched.
type Result struct {
	Users      int
	Statuses   int
	Categories int
}

type document struct {
	Users      json.RawMessage `json:"users"`
	Statuses   json.RawMessage `json:"statuses"`
	Categories json.RawMessage `json:"categories"`
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// Import replaces every collection present in the document and leaves absent
// ones untouched. The whole document is decoded and validated before anything
// is written; a malformed document returns errs.ErrImportFormat and changes
// nothing. If a later save fails, collections already replaced are restored.
func (s *Service) Import(ctx context.Context, r io.Reader) (Result, error) {
	res := Result{Users: -1, Statuses: -1, Categories: -1}

	b, err := io.ReadAll(r)
	if err != nil {
		return res, fmt.Errorf("read import: %w", err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return res, fmt.Errorf("%w: %v", errs.ErrImportFormat, err)
	}

	var (
		users      []model.Record
		statuses   []model.StatusDefinition
		categories []model.CategoryDefinition
	)
	if present(doc.Users) {
		if err := json.Unmarshal(doc.Users, &users); err != nil {
			return res, fmt.Errorf("%w: users: %v", errs.ErrImportFormat, err)
		}
		if err := checkRecordIDs(users); err != nil {
			return res, err
		}
		if users == nil {
			users = []model.Record{}
		}
	}
	if present(doc.Statuses) {
		if err := json.Unmarshal(doc.Statuses, &statuses); err != nil {
			return res, fmt.Errorf("%w: statuses: %v", errs.ErrImportFormat, err)
		}
		if len(statuses) == 0 {
			return res, fmt.Errorf("%w: statuses must not be empty", errs.ErrImportFormat)
		}
	}
	if present(doc.Categories) {
		if err := json.Unmarshal(doc.Categories, &categories); err != nil {
			return res, fmt.Errorf("%w: categories: %v", errs.ErrImportFormat, err)
		}
		if len(categories) == 0 {
			return res, fmt.Errorf("%w: categories must not be empty", errs.ErrImportFormat)
		}
	}

	var undo []func() error
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			if err := undo[i](); err != nil {
				s.log.Error("import rollback failed", zap.Error(err))
			}
		}
	}

	if users != nil {
		prev := s.records.List(model.RecordFilter{})
		if err := s.records.Replace(ctx, users); err != nil {
			return res, fmt.Errorf("import users: %w", err)
		}
		undo = append(undo, func() error { return s.records.Replace(context.WithoutCancel(ctx), prev) })
		res.Users = len(users)
	}
	if statuses != nil {
		prev := s.statuses.List()
		if err := s.statuses.Replace(ctx, statuses); err != nil {
			rollback()
			return Result{Users: -1, Statuses: -1, Categories: -1}, fmt.Errorf("import statuses: %w", err)
		}
		undo = append(undo, func() error { return s.statuses.Replace(context.WithoutCancel(ctx), prev) })
		res.Statuses = len(statuses)
	}
	if categories != nil {
		if err := s.categories.Replace(ctx, categories); err != nil {
			rollback()
			return Result{Users: -1, Statuses: -1, Categories: -1}, fmt.Errorf("import categories: %w", err)
		}
		res.Categories = len(categories)
	}

	s.log.Info("import applied",
		zap.Int("users", res.Users),
		zap.Int("statuses", res.Statuses),
		zap.Int("categories", res.Categories),
	)
	return res, nil
}

func checkRecordIDs(recs []model.Record) error {
	seen := make(map[string]struct{}, len(recs))
	for i, r := range recs {
		if r.ID == "" {
			return fmt.Errorf("%w: users[%d]: empty id", errs.ErrImportFormat, i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: users[%d]: duplicate id %s", errs.ErrImportFormat, i, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
