package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"io.winapps.clubconsole/internal/identity"
)

// State is the gate's view of who may see the console.
type State string

const (
	StateUnknown         State = "unknown"
	StateUnauthenticated State = "unauthenticated"
	StateAuthorized      State = "authorized"
)

// Messages shown on the login view.
const (
	MsgLoginFailed  = "Failed to log in. Please check your email and password."
	MsgUnauthorized = "Unauthorized access. Please contact the administrator."
)

var (
	ErrLoginFailed      = errors.New("login failed")
	ErrUnauthorized     = errors.New("identity is not allowed")
	ErrPasswordMismatch = errors.New("New passwords don't match")
)

// Gate applies the single-allowed-identity policy to the identity provider's
// auth-state stream. It is created once by the application, which must call
// Close on shutdown.
type Gate struct {
	provider identity.Provider
	allowed  string
	logger   *zap.SugaredLogger

	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	next        int

	unsubscribe func()
}

func NewGate(provider identity.Provider, allowedEmail string, logger *zap.SugaredLogger) *Gate {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	g := &Gate{
		provider:    provider,
		allowed:     allowedEmail,
		logger:      logger,
		state:       StateUnknown,
		subscribers: map[int]func(State){},
	}
	g.unsubscribe = provider.OnAuthStateChange(g.handle)
	return g
}

// Start resolves the initial state from the provider's current identity.
func (g *Gate) Start() {
	g.handle(g.provider.Current())
}

// Close detaches the gate from the provider.
func (g *Gate) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
}

// State follows the provider's most recent auth-state change, so it is
// process-wide: any login attempt, allowed or not, moves it. Per-request
// authorization goes through the session registry and Allowed instead.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Allowed reports whether id may use the console. The email comparison is
// exact and case-sensitive.
func (g *Gate) Allowed(id *identity.Identity) bool {
	return id != nil && id.Email == g.allowed
}

// Subscribe registers fn for every state transition.
func (g *Gate) Subscribe(fn func(State)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	g.subscribers[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subscribers, id)
	}
}

func (g *Gate) handle(id *identity.Identity) {
	next := StateUnauthenticated
	if g.Allowed(id) {
		next = StateAuthorized
	}

	g.mu.Lock()
	g.state = next
	fns := make([]func(State), 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// Login signs in and enforces the allowed identity. A signed-in identity
// that is not allowed is signed out again before returning ErrUnauthorized.
func (g *Gate) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	id, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	if !g.Allowed(id) {
		if err := g.provider.SignOut(ctx, id); err != nil {
			g.logger.Errorw("failed to sign out disallowed identity", "user_uid", id.UID, "error", err)
		}
		g.logger.Warnw("rejected login for disallowed identity", "user_uid", id.UID)
		return nil, ErrUnauthorized
	}
	return id, nil
}

func (g *Gate) Logout(ctx context.Context, id *identity.Identity) error {
	return g.provider.SignOut(ctx, id)
}

// Authorize verifies a provider ID token and applies the allowed identity.
func (g *Gate) Authorize(ctx context.Context, idToken string) (*identity.Identity, error) {
	id, err := g.provider.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if !g.Allowed(id) {
		return nil, ErrUnauthorized
	}
	return id, nil
}

// ChangePassword updates the signed-in account's password.
func (g *Gate) ChangePassword(ctx context.Context, id *identity.Identity, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	return g.provider.ChangePassword(ctx, id, current, next)
}
