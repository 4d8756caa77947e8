package model

import (
	"regexp"
	"time"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether c is a #RGB or #RRGGBB color.
func ValidColor(c string) bool { return hexColor.MatchString(c) }

// Definition is an entry of a small configurable taxonomy. T is the concrete type,
// so generic stores can derive an updated copy without reflection.
type Definition[T any] interface {
	Ident() string
	Label() string
	WithID(id string) T
}

// StatusDefinition is a verification status with its display color.
type StatusDefinition struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // #RRGGBB
}

func (s StatusDefinition) Ident() string { return s.ID }
func (s StatusDefinition) Label() string { return s.Name }

// WithID returns a copy of s with the given id.
func (s StatusDefinition) WithID(id string) StatusDefinition {
	s.ID = id
	return s
}

// CategoryDefinition is a verification reason.
type CategoryDefinition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c CategoryDefinition) Ident() string { return c.ID }
func (c CategoryDefinition) Label() string { return c.Name }

// WithID returns a copy of c with the given id.
func (c CategoryDefinition) WithID(id string) CategoryDefinition {
	c.ID = id
	return c
}

// Snapshot is the combined import/export document.
type Snapshot struct {
	Users      []Record             `json:"users"`
	Statuses   []StatusDefinition   `json:"statuses"`
	Categories []CategoryDefinition `json:"categories"`
	ExportDate time.Time            `json:"exportDate"`
}
