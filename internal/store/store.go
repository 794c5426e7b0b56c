// Package store holds the most recent summary snapshot.
//
// A store is a single slot: Replace swaps the whole snapshot and readers
// observe either the previous or the new one, never a mix. No history is
// kept.
package store

import (
	"context"
	"errors"

	"github.com/spec-kit/department-summary/internal/domain"
)

// ErrNoSnapshot is returned by Current before the first successful cycle.
var ErrNoSnapshot = errors.New("no summary snapshot yet")

// SummaryStore is the externally owned cell holding the latest snapshot.
type SummaryStore interface {
	Replace(ctx context.Context, snap *domain.Snapshot) error
	Current(ctx context.Context) (*domain.Snapshot, error)
	Ping(ctx context.Context) error
}
