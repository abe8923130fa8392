package sqlite

import (
	"context"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
)

type profilesRepo struct {
	db dbtx
}

func (r *profilesRepo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, role, organization_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email           = excluded.email,
			display_name    = excluded.display_name,
			role            = excluded.role,
			organization_id = excluded.organization_id,
			updated_at      = excluded.updated_at`,
		p.ID, p.Email, p.DisplayName, p.Role, p.OrganizationID, now, now,
	)
	return err
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, role, organization_id, created_at, updated_at
		FROM users WHERE id = ?`, id))
}

func (r *profilesRepo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, role, organization_id, created_at, updated_at
		FROM users WHERE lower(email) = lower(?)`, email))
}

func (r *profilesRepo) ListProfilesByOrganization(ctx context.Context, orgID string) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, display_name, role, organization_id, created_at, updated_at
		FROM users WHERE organization_id = ? ORDER BY display_name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Role,
			&p.OrganizationID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProfile(row rowScanner) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Role,
		&p.OrganizationID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}
