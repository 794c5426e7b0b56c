// Package source retrieves the collection of user records for one cycle.
package source

import (
	"context"
	"errors"

	"github.com/spec-kit/department-summary/internal/domain"
)

var (
	// ErrUpstreamStatus is returned for non-2xx responses.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	// ErrUnexpectedPayload is returned when the body has no user collection.
	ErrUnexpectedPayload = errors.New("unexpected upstream payload")
)

//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks

// Fetcher retrieves the full collection of user records in one request.
type Fetcher interface {
	FetchUsers(ctx context.Context) ([]domain.UserRecord, error)
	Name() string
}
