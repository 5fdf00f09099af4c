// Package company holds the tenant's own identity printed on rendered
// documents.
package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Profile is the company value object handed to the document renderer
// alongside a finished document model.
type Profile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	LogoRef string `json:"logoRef"`
}

// Store provides PostgreSQL backed persistence for company profiles.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns the tenant's profile, or the zero profile when none has been
// saved yet. A tenant that never configured its identity still renders
// documents, just with empty company fields.
func (s *Store) Get(ctx context.Context, tenant string) (Profile, error) {
	const query = `
		SELECT name, address, phone, email, website, logo_ref
		FROM company_profiles
		WHERE tenant_id = $1`

	var p Profile
	err := s.pool.QueryRow(ctx, query, tenant).
		Scan(&p.Name, &p.Address, &p.Phone, &p.Email, &p.Website, &p.LogoRef)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("company: get profile: %w", err)
	}
	return p, nil
}

// Upsert saves the tenant's profile, creating the row on first write.
func (s *Store) Upsert(ctx context.Context, tenant string, p Profile) (Profile, error) {
	const query = `
		INSERT INTO company_profiles (tenant_id, name, address, phone, email, website, logo_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id) DO UPDATE SET
			name = $2, address = $3, phone = $4, email = $5,
			website = $6, logo_ref = $7, updated_at = now()
		RETURNING name, address, phone, email, website, logo_ref`

	var saved Profile
	err := s.pool.QueryRow(ctx, query, tenant, p.Name, p.Address, p.Phone, p.Email, p.Website, p.LogoRef).
		Scan(&saved.Name, &saved.Address, &saved.Phone, &saved.Email, &saved.Website, &saved.LogoRef)
	if err != nil {
		return Profile{}, fmt.Errorf("company: upsert profile: %w", err)
	}
	return saved, nil
}
