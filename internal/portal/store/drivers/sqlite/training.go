package sqlite

import (
	"context"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
)

type modulesRepo struct {
	db dbtx
}

func (r *modulesRepo) CreateModule(ctx context.Context, m domain.Module) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO modules (id, slug, title, summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Slug, m.Title, m.Summary, now, now,
	)
	return mapConstraint(err)
}

func (r *modulesRepo) GetModuleByID(ctx context.Context, id string) (domain.Module, error) {
	var m domain.Module
	err := r.db.QueryRowContext(ctx, `
		SELECT id, slug, title, summary, created_at, updated_at
		FROM modules WHERE id = ?`, id,
	).Scan(&m.ID, &m.Slug, &m.Title, &m.Summary, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Module{}, mapNotFound(err)
	}
	return m, nil
}

func (r *modulesRepo) ListModules(ctx context.Context) ([]domain.Module, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slug, title, summary, created_at, updated_at
		FROM modules ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Module
	for rows.Next() {
		var m domain.Module
		if err := rows.Scan(&m.ID, &m.Slug, &m.Title, &m.Summary,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type completionsRepo struct {
	db dbtx
}

func (r *completionsRepo) UpsertCompletion(ctx context.Context, c domain.Completion) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO module_completions (user_id, module_id, score, completed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, module_id) DO UPDATE SET
			score        = excluded.score,
			completed_at = excluded.completed_at`,
		c.UserID, c.ModuleID, c.Score, c.CompletedAt.UTC(),
	)
	return err
}

func (r *completionsRepo) ListCompletionsByUser(ctx context.Context, userID string) ([]domain.Completion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, module_id, score, completed_at
		FROM module_completions WHERE user_id = ? ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompletions(rows)
}

func (r *completionsRepo) ListCompletionsByOrganization(ctx context.Context, orgID string) ([]domain.Completion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.user_id, c.module_id, c.score, c.completed_at
		FROM module_completions c
		JOIN users u ON u.id = c.user_id
		WHERE u.organization_id = ?
		ORDER BY c.completed_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompletions(rows)
}

func scanCompletions(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]domain.Completion, error) {
	var out []domain.Completion
	for rows.Next() {
		var c domain.Completion
		if err := rows.Scan(&c.UserID, &c.ModuleID, &c.Score, &c.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
