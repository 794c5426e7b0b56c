package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/department-summary/internal/domain"
)

// UserRepository reads user records from Postgres.
type UserRepository interface {
	ListAll(ctx context.Context) ([]domain.UserRecord, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository builds the repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) ListAll(ctx context.Context) ([]domain.UserRecord, error) {
	const query = `
        SELECT id, first_name, last_name, gender, age,
               hair_color, hair_type,
               company_name, title, department,
               address, city, state, postal_code
        FROM users ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanUser)
}

func scanUser(row pgx.CollectableRow) (domain.UserRecord, error) {
	var (
		u                               domain.UserRecord
		gender, hairColor, hairType     *string
		companyName, title, department  *string
		street, city, state, postalCode *string
	)
	if err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &gender, &u.Age,
		&hairColor, &hairType,
		&companyName, &title, &department,
		&street, &city, &state, &postalCode,
	); err != nil {
		return domain.UserRecord{}, err
	}

	u.Gender = deref(gender)
	if hairColor != nil || hairType != nil {
		u.Hair = &domain.Hair{Color: hairColor, Type: deref(hairType)}
	}

	var addr *domain.Address
	if street != nil || city != nil || state != nil || postalCode != nil {
		addr = &domain.Address{
			Address:    deref(street),
			City:       deref(city),
			State:      deref(state),
			PostalCode: postalCode,
		}
	}
	if companyName != nil || title != nil || department != nil || addr != nil {
		u.Company = &domain.Company{
			Department: department,
			Name:       deref(companyName),
			Title:      deref(title),
			Address:    addr,
		}
	}
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
