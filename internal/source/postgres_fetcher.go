package source

import (
	"context"
	"fmt"

	"github.com/spec-kit/department-summary/internal/domain"
	"github.com/spec-kit/department-summary/internal/repository"
)

// PostgresFetcher reads the user collection from the users table.
type PostgresFetcher struct {
	users repository.UserRepository
}

// NewPostgresFetcher wraps a user repository.
func NewPostgresFetcher(users repository.UserRepository) *PostgresFetcher {
	return &PostgresFetcher{users: users}
}

// Name identifies the source in snapshots and logs.
func (f *PostgresFetcher) Name() string {
	return "postgres:users"
}

// FetchUsers lists every row of the users table ordered by id.
func (f *PostgresFetcher) FetchUsers(ctx context.Context) ([]domain.UserRecord, error) {
	users, err := f.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
