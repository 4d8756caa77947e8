// Package model defines domain entities used by services and repositories.
package model

import (
	"strings"
	"time"
)

// PatentClaim is a free-text ownership assertion attached to a record.
type PatentClaim struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Record is a single verification case for an account/owner pair.
type Record struct {
	ID                  string        `json:"id"` // 6-digit numeric, stable after creation
	Owner               string        `json:"owner"`
	Username            string        `json:"username"`
	ChannelOrProfile    string        `json:"channelOrProfile"`
	Age                 string        `json:"age"`
	Reason              string        `json:"reason"` // category name
	Patents             []PatentClaim `json:"patents"`
	Status              string        `json:"status"` // status name
	StatusNote          string        `json:"statusNote"`
	OtherSocialNetworks string        `json:"otherSocialNetworks"`
	CreatedAt           time.Time     `json:"createdAt"` // set once, never mutated on edit
	PhotoRef            string        `json:"photoUrl,omitempty"`
}

// RecordFields is the editable part of a record supplied on create and update.
type RecordFields struct {
	Owner               string
	Username            string
	ChannelOrProfile    string
	Age                 string
	Reason              string
	Status              string
	StatusNote          string
	OtherSocialNetworks string
	PhotoRef            string
}

// Fields returns the editable part of r.
func (r Record) Fields() RecordFields {
	return RecordFields{
		Owner:               r.Owner,
		Username:            r.Username,
		ChannelOrProfile:    r.ChannelOrProfile,
		Age:                 r.Age,
		Reason:              r.Reason,
		Status:              r.Status,
		StatusNote:          r.StatusNote,
		OtherSocialNetworks: r.OtherSocialNetworks,
		PhotoRef:            r.PhotoRef,
	}
}

// Clone returns a copy of r that shares no slices with it.
func (r Record) Clone() Record {
	r.Patents = append([]PatentClaim{}, r.Patents...)
	return r
}

// RecordFilter selects records; empty fields match everything.
type RecordFilter struct {
	Status     string // exact match
	IDContains string // substring of Record.ID
}

// Match reports whether r satisfies every set predicate of f.
func (f RecordFilter) Match(r Record) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.IDContains != "" && !strings.Contains(r.ID, f.IDContains) {
		return false
	}
	return true
}
