// Package identitytest provides an in-memory identity provider for tests.
package identitytest

import (
	"context"
	"fmt"
	"sync"

	"io.winapps.clubconsole/internal/identity"
)

type account struct {
	uid      string
	password string
}

// Provider is an in-memory identity.Provider keyed by email.
type Provider struct {
	identity.Listeners

	mu         sync.Mutex
	accounts   map[string]*account
	tokens     map[string]*identity.Identity
	SignOuts   []string
	SignOutErr error
}

func NewProvider() *Provider {
	return &Provider{accounts: map[string]*account{}, tokens: map[string]*identity.Identity{}}
}

// AddAccount registers an account and returns its UID.
func (p *Provider) AddAccount(email, password string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	uid := fmt.Sprintf("uid-%d", len(p.accounts)+1)
	p.accounts[email] = &account{uid: uid, password: password}
	return uid
}

func (p *Provider) Password(email string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if a, ok := p.accounts[email]; ok {
		return a.password
	}
	return ""
}

func (p *Provider) SignIn(_ context.Context, email, password string) (*identity.Identity, error) {
	p.mu.Lock()
	a, ok := p.accounts[email]
	if !ok || a.password != password {
		p.mu.Unlock()
		return nil, identity.ErrInvalidCredentials
	}
	id := &identity.Identity{UID: a.uid, Email: email, IDToken: "token-" + a.uid}
	p.tokens[id.IDToken] = id
	p.mu.Unlock()

	p.Emit(id)
	return id, nil
}

func (p *Provider) SignOut(_ context.Context, id *identity.Identity) error {
	defer p.Emit(nil)
	p.mu.Lock()
	defer p.mu.Unlock()
	if id != nil {
		p.SignOuts = append(p.SignOuts, id.UID)
		delete(p.tokens, id.IDToken)
	}
	return p.SignOutErr
}

func (p *Provider) Verify(_ context.Context, idToken string) (*identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.tokens[idToken]
	if !ok {
		return nil, identity.ErrInvalidCredentials
	}
	return id, nil
}

func (p *Provider) ChangePassword(_ context.Context, id *identity.Identity, current, next string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.accounts[id.Email]
	if !ok || a.password != current {
		return identity.ErrInvalidCredentials
	}
	a.password = next
	return nil
}

func (p *Provider) Current() *identity.Identity {
	return p.Listeners.Current()
}

func (p *Provider) OnAuthStateChange(fn func(*identity.Identity)) func() {
	return p.Subscribe(fn)
}
