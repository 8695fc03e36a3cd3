package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"io.winapps.clubconsole/internal/identity"
	"io.winapps.clubconsole/internal/identity/identitytest"
)

const adminEmail = "admin@club.org"

func newTestGate(t *testing.T) (*Gate, *identitytest.Provider) {
	t.Helper()
	provider := identitytest.NewProvider()
	provider.AddAccount(adminEmail, "secret")
	provider.AddAccount("member@club.org", "secret")
	gate := NewGate(provider, adminEmail, nil)
	t.Cleanup(gate.Close)
	return gate, provider
}

func TestGateStartsUnknownThenResolves(t *testing.T) {
	gate, _ := newTestGate(t)
	assert.Equal(t, StateUnknown, gate.State())

	gate.Start()
	assert.Equal(t, StateUnauthenticated, gate.State())
}

func TestGateLoginAllowedIdentity(t *testing.T) {
	gate, _ := newTestGate(t)
	gate.Start()

	var seen []State
	unsubscribe := gate.Subscribe(func(s State) { seen = append(seen, s) })
	defer unsubscribe()

	id, err := gate.Login(context.Background(), adminEmail, "secret")
	require.NoError(t, err)
	assert.Equal(t, adminEmail, id.Email)
	assert.Equal(t, StateAuthorized, gate.State())
	assert.Equal(t, []State{StateAuthorized}, seen)
}

func TestGateLoginWrongPassword(t *testing.T) {
	gate, _ := newTestGate(t)
	gate.Start()

	_, err := gate.Login(context.Background(), adminEmail, "nope")
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.Equal(t, StateUnauthenticated, gate.State())
}

func TestGateLoginDisallowedIdentityIsSignedOut(t *testing.T) {
	gate, provider := newTestGate(t)
	gate.Start()

	_, err := gate.Login(context.Background(), "member@club.org", "secret")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, StateUnauthenticated, gate.State())
	assert.Len(t, provider.SignOuts, 1)
	assert.Nil(t, provider.Current())
}

func TestGateEmailComparisonIsExact(t *testing.T) {
	gate, _ := newTestGate(t)
	assert.False(t, gate.Allowed(&identity.Identity{Email: "Admin@club.org"}))
	assert.False(t, gate.Allowed(nil))
	assert.True(t, gate.Allowed(&identity.Identity{Email: adminEmail}))
}

func TestGateLogoutAndClose(t *testing.T) {
	gate, provider := newTestGate(t)
	gate.Start()

	id, err := gate.Login(context.Background(), adminEmail, "secret")
	require.NoError(t, err)
	require.NoError(t, gate.Logout(context.Background(), id))
	assert.Equal(t, StateUnauthenticated, gate.State())

	gate.Close()
	assert.Equal(t, 0, provider.Len())

	_, err = provider.SignIn(context.Background(), adminEmail, "secret")
	require.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, gate.State())
}

func TestGateAuthorize(t *testing.T) {
	gate, provider := newTestGate(t)
	ctx := context.Background()

	admin, err := provider.SignIn(ctx, adminEmail, "secret")
	require.NoError(t, err)
	member, err := provider.SignIn(ctx, "member@club.org", "secret")
	require.NoError(t, err)

	got, err := gate.Authorize(ctx, admin.IDToken)
	require.NoError(t, err)
	assert.Equal(t, admin.UID, got.UID)

	_, err = gate.Authorize(ctx, member.IDToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = gate.Authorize(ctx, "garbage")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestGateChangePassword(t *testing.T) {
	gate, provider := newTestGate(t)
	ctx := context.Background()
	id, err := gate.Login(ctx, adminEmail, "secret")
	require.NoError(t, err)

	err = gate.ChangePassword(ctx, id, "secret", "new-one", "other")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	err = gate.ChangePassword(ctx, id, "wrong", "new-one", "new-one")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	require.NoError(t, gate.ChangePassword(ctx, id, "secret", "new-one", "new-one"))
	assert.Equal(t, "new-one", provider.Password(adminEmail))
}
