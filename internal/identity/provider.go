package identity

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is a signed-in account as reported by the identity provider.
type Identity struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	IDToken      string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Provider is the identity-provider contract the console consumes.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context, id *Identity) error
	// Verify resolves a provider-issued ID token to its identity.
	Verify(ctx context.Context, idToken string) (*Identity, error)
	ChangePassword(ctx context.Context, id *Identity, currentPassword, newPassword string) error
	// Current is the identity of the last auth-state change, nil if signed out.
	Current() *Identity
	OnAuthStateChange(fn func(*Identity)) (unsubscribe func())
}

// Listeners fans auth-state changes out to subscribers.
type Listeners struct {
	mu      sync.Mutex
	next    int
	fns     map[int]func(*Identity)
	current *Identity
}

func (l *Listeners) Subscribe(fn func(*Identity)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = map[int]func(*Identity){}
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.fns, id)
		})
	}
}

// Emit records id as the current identity and notifies every subscriber
// outside the lock.
func (l *Listeners) Emit(id *Identity) {
	l.mu.Lock()
	l.current = id
	fns := make([]func(*Identity), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

func (l *Listeners) Current() *Identity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
