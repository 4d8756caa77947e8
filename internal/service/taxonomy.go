package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/veriuser/internal/errs"
	"github.com/and161185/veriuser/internal/model"
	"github.com/and161185/veriuser/internal/repository"
)

// DefaultFallbackColor is used for statuses that no longer exist.
const DefaultFallbackColor = "#4CAF50"

// DefaultStatuses seed an empty store.
func DefaultStatuses() []model.StatusDefinition {
	return []model.StatusDefinition{
		{ID: "1", Name: "Verified account", Color: "#4CAF50"},
		{ID: "2", Name: "Scammer", Color: "#F44336"},
	}
}

// DefaultCategories seed an empty store.
func DefaultCategories() []model.CategoryDefinition {
	return []model.CategoryDefinition{
		{ID: "1", Name: "Official channel"},
		{ID: "2", Name: "Public figure"},
	}
}

// Taxonomy is a small named-entity collection that is never empty.
// Names are not required to be unique.
type Taxonomy[T model.Definition[T]] struct {
	kv       repository.KV
	key      string
	defaults []T
	opts     options

	mu    sync.RWMutex
	items []T
}

// NewTaxonomy constructs a store persisted under key and seeded with defaults;
// call Load before use.
func NewTaxonomy[T model.Definition[T]](kv repository.KV, key string, defaults []T, opts ...Option) *Taxonomy[T] {
	return &Taxonomy[T]{
		kv:       kv,
		key:      key,
		defaults: slices.Clone(defaults),
		opts:     buildOptions(opts),
		items:    slices.Clone(defaults),
	}
}

// NewCategoryTaxonomy constructs the category store.
func NewCategoryTaxonomy(kv repository.KV, opts ...Option) *Taxonomy[model.CategoryDefinition] {
	return NewTaxonomy(kv, repository.KeyCategories, DefaultCategories(), opts...)
}

// Load reads the collection from the KV. A missing key, or a stored empty
// list, yields the defaults.
func (t *Taxonomy[T]) Load(ctx context.Context) error {
	b, err := t.kv.Load(ctx, t.key)
	if errors.Is(err, errs.ErrNotFound) {
		t.mu.Lock()
		t.items = slices.Clone(t.defaults)
		t.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", t.key, err)
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("load %s: decode: %w", t.key, err)
	}
	if len(items) == 0 {
		items = slices.Clone(t.defaults)
	}
	t.mu.Lock()
	t.items = items
	t.mu.Unlock()
	return nil
}

// Add assigns a fresh id to def, appends it and persists.
func (t *Taxonomy[T]) Add(ctx context.Context, def T) (T, error) {
	var zero T
	if strings.TrimSpace(def.Label()) == "" {
		return zero, &errs.ValidationError{Fields: []string{"name"}}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id, err := t.freshID()
	if err != nil {
		return zero, err
	}
	def = def.WithID(id)
	next := append(slices.Clip(t.items), def)
	if err := t.commit(ctx, next); err != nil {
		return zero, err
	}
	t.opts.log.Debug("taxonomy entry added", zap.String("key", t.key), zap.String("id", def.Ident()))
	return def, nil
}

// Remove deletes the entry with the given id. Removing the last remaining
// entry is a silent no-op.
func (t *Taxonomy[T]) Remove(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := slices.IndexFunc(t.items, func(d T) bool { return d.Ident() == id })
	if i < 0 {
		return fmt.Errorf("%s %s: %w", t.key, id, errs.ErrNotFound)
	}
	if len(t.items) <= 1 {
		t.opts.log.Debug("taxonomy remove skipped: last entry", zap.String("key", t.key), zap.String("id", id))
		return nil
	}
	next := slices.Delete(slices.Clone(t.items), i, i+1)
	if err := t.commit(ctx, next); err != nil {
		return err
	}
	t.opts.log.Debug("taxonomy entry removed", zap.String("key", t.key), zap.String("id", id))
	return nil
}

// List returns a copy of the collection in insertion order.
func (t *Taxonomy[T]) List() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.items)
}

// Find returns the first entry whose name exactly matches.
func (t *Taxonomy[T]) Find(name string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, d := range t.items {
		if d.Label() == name {
			return d, true
		}
	}
	var zero T
	return zero, false
}

// Replace swaps the whole collection (import). An empty replacement is rejected.
func (t *Taxonomy[T]) Replace(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("validation: %s must not be empty", t.key)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.commit(ctx, slices.Clone(items)); err != nil {
		return err
	}
	t.opts.log.Debug("taxonomy replaced", zap.String("key", t.key), zap.Int("count", len(items)))
	return nil
}

// commit persists next and only then makes it current. Caller holds t.mu.
func (t *Taxonomy[T]) commit(ctx context.Context, next []T) error {
	b, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.key, err)
	}
	if err := t.kv.Save(ctx, t.key, b); err != nil {
		return fmt.Errorf("save %s: %w", t.key, err)
	}
	t.items = next
	return nil
}

func (t *Taxonomy[T]) freshID() (string, error) {
	for range maxIDAttempts {
		id := t.opts.entityID()
		if !slices.ContainsFunc(t.items, func(d T) bool { return d.Ident() == id }) {
			return id, nil
		}
	}
	return "", errs.ErrIDSpaceExhausted
}

// StatusTaxonomy is the status store plus color lookup.
type StatusTaxonomy struct {
	*Taxonomy[model.StatusDefinition]
	fallback string
}

// NewStatusTaxonomy constructs the status store. An empty fallback means
// DefaultFallbackColor.
func NewStatusTaxonomy(kv repository.KV, fallback string, opts ...Option) *StatusTaxonomy {
	if fallback == "" {
		fallback = DefaultFallbackColor
	}
	return &StatusTaxonomy{
		Taxonomy: NewTaxonomy(kv, repository.KeyStatuses, DefaultStatuses(), opts...),
		fallback: fallback,
	}
}

// Add validates the color and appends def. An empty color renders with the
// fallback color.
func (s *StatusTaxonomy) Add(ctx context.Context, def model.StatusDefinition) (model.StatusDefinition, error) {
	if def.Color != "" && !model.ValidColor(def.Color) {
		return model.StatusDefinition{}, fmt.Errorf("%w: color %q must be #RGB or #RRGGBB", errs.ErrValidation, def.Color)
	}
	return s.Taxonomy.Add(ctx, def)
}

// ResolveColor returns the color of the first status named statusName, or the
// fallback color when the status was renamed or deleted.
func (s *StatusTaxonomy) ResolveColor(statusName string) string {
	if d, ok := s.Find(statusName); ok && d.Color != "" {
		return d.Color
	}
	return s.fallback
}
