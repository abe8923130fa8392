package sqlite

import (
	"context"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
)

type organizationsRepo struct {
	db dbtx
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, org domain.Organization) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, code, logo_url, support_email, support_phone, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		org.ID, org.Name, org.Code, org.LogoURL, org.SupportEmail, org.SupportPhone, org.CreatedBy, now, now,
	)
	return mapConstraint(err)
}

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, code, logo_url, support_email, support_phone, created_by, created_at, updated_at
		 FROM organizations WHERE id = ?`, id))
}

func (r *organizationsRepo) GetOrganizationByCode(ctx context.Context, code string) (domain.Organization, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, code, logo_url, support_email, support_phone, created_by, created_at, updated_at
		 FROM organizations WHERE code = ?`, code))
}

func (r *organizationsRepo) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, code, logo_url, support_email, support_phone, created_by, created_at, updated_at
		 FROM organizations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Organization
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Code, &org.LogoURL,
			&org.SupportEmail, &org.SupportPhone, &org.CreatedBy,
			&org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func (r *organizationsRepo) UpdateBranding(ctx context.Context, orgID string, b domain.Branding) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE organizations
		SET logo_url = ?, support_email = ?, support_phone = ?, updated_at = ?
		WHERE id = ?`,
		b.LogoURL, b.SupportEmail, b.SupportPhone, time.Now().UTC(), orgID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *organizationsRepo) scanOne(row rowScanner) (domain.Organization, error) {
	var org domain.Organization
	err := row.Scan(&org.ID, &org.Name, &org.Code, &org.LogoURL,
		&org.SupportEmail, &org.SupportPhone, &org.CreatedBy,
		&org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return org, nil
}
