package service

import (
	"context"
	"errors"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/metrics"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/cryptox"
)

var (
	ErrTokenNotFound = errors.New("safe-link token not found")
	ErrTokenUsed     = errors.New("safe-link token already used")
	ErrTokenExpired  = errors.New("safe-link token expired")
)

const defaultLinkTTL = 24 * time.Hour

// SafeLinkService issues and claims single-use safe-link tokens. A token
// hides a sensitive credential URL behind an explicit POST so that mail
// scanners prefetching GET links cannot burn the underlying credential.
type SafeLinkService struct {
	Store store.Store

	// TTL bounds how long an issued token stays claimable. Zero means
	// defaultLinkTTL.
	TTL time.Duration
}

func (s *SafeLinkService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return defaultLinkTTL
}

// Issue stores targetURL behind a fresh opaque token and returns the raw
// token. Only its fingerprint is stored, so a database leak does not expose
// claimable tokens.
func (s *SafeLinkService) Issue(ctx context.Context, targetURL string) (string, error) {
	if targetURL == "" {
		return "", errors.New("target URL is required")
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	err = s.Store.SafeLinks().CreateSafeLink(ctx, domain.SafeLinkToken{
		ID:        cryptox.FingerprintToken(token),
		TargetURL: targetURL,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Claim atomically consumes a token and returns its target URL. Exactly one
// concurrent claim per token succeeds; losers and latecomers receive
// ErrTokenUsed, ErrTokenExpired, or ErrTokenNotFound.
func (s *SafeLinkService) Claim(ctx context.Context, token string) (string, error) {
	now := time.Now().UTC()
	id := cryptox.FingerprintToken(token)

	url, claimed, err := s.Store.SafeLinks().ConsumeSafeLink(ctx, id, now)
	if err != nil {
		return "", err
	}
	if claimed {
		metrics.SafeLinkClaims.WithLabelValues("claimed").Inc()
		return url, nil
	}

	// The conditional update matched nothing. Classify why.
	tok, err := s.Store.SafeLinks().GetSafeLinkByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.SafeLinkClaims.WithLabelValues("not_found").Inc()
			return "", ErrTokenNotFound
		}
		return "", err
	}
	if tok.Used {
		metrics.SafeLinkClaims.WithLabelValues("already_used").Inc()
		return "", ErrTokenUsed
	}
	metrics.SafeLinkClaims.WithLabelValues("expired").Inc()
	return "", ErrTokenExpired
}
