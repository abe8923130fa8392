package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
)

type safeLinksRepo struct {
	db dbtx
}

func (r *safeLinksRepo) CreateSafeLink(ctx context.Context, t domain.SafeLinkToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO safe_link_tokens (id, target_url, expires_at, used, created_at)
		VALUES (?, ?, ?, 0, ?)`,
		t.ID, t.TargetURL, t.ExpiresAt.UTC(), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *safeLinksRepo) GetSafeLinkByID(ctx context.Context, id string) (domain.SafeLinkToken, error) {
	var t domain.SafeLinkToken
	err := r.db.QueryRowContext(ctx, `
		SELECT id, target_url, expires_at, used, created_at
		FROM safe_link_tokens WHERE id = ?`, id,
	).Scan(&t.ID, &t.TargetURL, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		return domain.SafeLinkToken{}, mapNotFound(err)
	}
	return t, nil
}

// ConsumeSafeLink is the one compare-and-swap in the system: the conditional
// UPDATE guarantees that of two racing claims exactly one observes used = 0.
func (r *safeLinksRepo) ConsumeSafeLink(ctx context.Context, id string, now time.Time) (string, bool, error) {
	var url string
	err := r.db.QueryRowContext(ctx, `
		UPDATE safe_link_tokens SET used = 1
		WHERE id = ? AND used = 0 AND expires_at > ?
		RETURNING target_url`,
		id, now.UTC(),
	).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

func (r *safeLinksRepo) DeleteExpiredSafeLinks(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM safe_link_tokens WHERE expires_at <= ?`, cutoff.UTC())
	return err
}
