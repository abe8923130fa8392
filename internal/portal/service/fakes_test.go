package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/aaplusconsultants/policytrain/internal/portal/idp"
	"github.com/aaplusconsultants/policytrain/internal/portal/mailer"
)

// fakeIDP is an in-memory identity provider for tests.
type fakeIDP struct {
	mu       sync.Mutex
	accounts map[string]idp.Account // keyed by lowercased email
	sessions map[string]idp.Session // keyed by code or access token
	signOuts []string
	nextID   int
}

func newFakeIDP() *fakeIDP {
	return &fakeIDP{
		accounts: make(map[string]idp.Account),
		sessions: make(map[string]idp.Session),
	}
}

// addAccount seeds a settled account, one whose owner has signed in before.
func (f *fakeIDP) addAccount(id, email string) idp.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	acct := idp.Account{ID: id, Email: email, Confirmed: true}
	f.accounts[strings.ToLower(email)] = acct
	return acct
}

func (f *fakeIDP) addSession(key string, sess idp.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[key] = sess
}

func (f *fakeIDP) signOutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.signOuts)
}

func (f *fakeIDP) AccountByEmail(ctx context.Context, email string) (idp.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acct, ok := f.accounts[strings.ToLower(email)]
	if !ok {
		return idp.Account{}, idp.ErrAccountNotFound
	}
	return acct, nil
}

func (f *fakeIDP) CreateAccount(ctx context.Context, email string, meta idp.Metadata) (idp.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	acct := idp.Account{
		ID:       fmt.Sprintf("acct-%d", f.nextID),
		Email:    email,
		Metadata: meta,
	}
	f.accounts[strings.ToLower(email)] = acct
	return acct, nil
}

func (f *fakeIDP) GenerateLink(ctx context.Context, kind idp.LinkKind, email, redirectTo string, meta idp.Metadata) (string, error) {
	return fmt.Sprintf("https://idp.test/verify?type=%s&token=one-time&redirect_to=%s",
		kind, url.QueryEscape(redirectTo)), nil
}

func (f *fakeIDP) ExchangeCode(ctx context.Context, code string) (idp.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[code]
	if !ok {
		return idp.Session{}, idp.ErrExchangeFailed
	}
	return sess, nil
}

func (f *fakeIDP) SessionFromToken(ctx context.Context, accessToken string) (idp.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[accessToken]
	if !ok {
		return idp.Session{}, idp.ErrExchangeFailed
	}
	return sess, nil
}

func (f *fakeIDP) SignOut(ctx context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts = append(f.signOuts, accessToken)
	return nil
}

// fakeMailer records sent messages and can simulate failures.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []mailer.Message
	sendErr error
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	to := make([]string, len(f.sent))
	for i, m := range f.sent {
		to[i] = m.To
	}
	return to
}
