package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/stretchr/testify/require"
)

func TestCleanupKeepsRecentlyExpiredSafeLinks(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, st.SafeLinks().CreateSafeLink(ctx, domain.SafeLinkToken{
		ID: "recent", TargetURL: "https://example.com/a",
		ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-25 * time.Hour),
	}))
	require.NoError(t, st.SafeLinks().CreateSafeLink(ctx, domain.SafeLinkToken{
		ID: "stale", TargetURL: "https://example.com/b",
		ExpiresAt: now.Add(-expiredLinkRetention - time.Hour), CreatedAt: now.Add(-120 * time.Hour),
	}))

	svc := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	svc.cleanup()

	// A token inside the retention window stays classifiable as expired;
	// only long-gone rows are removed.
	_, err := st.SafeLinks().GetSafeLinkByID(ctx, "recent")
	require.NoError(t, err)
	_, err = st.SafeLinks().GetSafeLinkByID(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)
}
