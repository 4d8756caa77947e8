package service

import (
	"math/rand/v2"
	"strconv"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/veriuser/internal/lifecycle"
)

// Record ids are 6-digit numeric strings in [minRecordID, minRecordID+recordIDSpan).
const (
	minRecordID  = 100000
	recordIDSpan = 900000
)

type options struct {
	clock    lifecycle.Clock
	recordID func() string
	entityID func() string
	log      *zap.Logger
}

// Option configures the stores.
type Option func(*options)

// WithClock sets the clock used for CreatedAt.
func WithClock(c lifecycle.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRecordIDSource replaces the random record id generator.
func WithRecordIDSource(f func() string) Option {
	return func(o *options) { o.recordID = f }
}

// WithEntityIDSource replaces the generator for taxonomy and claim ids.
func WithEntityIDSource(f func() string) Option {
	return func(o *options) { o.entityID = f }
}

// WithLogger sets the logger for mutation events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{
		clock:    lifecycle.SystemClock,
		recordID: randomRecordID,
		entityID: timeOrderedID,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func randomRecordID() string {
	return strconv.Itoa(minRecordID + rand.IntN(recordIDSpan))
}

// timeOrderedID returns a UUIDv7, falling back to v4 if the clock source fails.
func timeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Must(uuid.NewV4()).String()
	}
	return id.String()
}
