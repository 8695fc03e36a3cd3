package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// TokenAuthority is the part of the Firebase Auth admin client the console uses.
type TokenAuthority interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
}

// Firebase implements Provider on Firebase Auth. Email/password sign-in goes
// through the Identity Toolkit API because the admin SDK cannot check
// passwords; everything else uses the admin client.
type Firebase struct {
	authority TokenAuthority
	toolkit   *identitytoolkit.Service
	listeners Listeners
}

func NewFirebase(ctx context.Context, authority TokenAuthority, apiKey string) (*Firebase, error) {
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}
	return &Firebase{authority: authority, toolkit: toolkit}, nil
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	id, err := f.verifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	f.listeners.Emit(id)
	return id, nil
}

func (f *Firebase) verifyPassword(ctx context.Context, email, password string) (*Identity, error) {
	resp, err := f.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		if isCredentialError(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("password sign-in failed: %w", err)
	}

	return &Identity{
		UID:          resp.LocalId,
		Email:        resp.Email,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// SignOut revokes the account's refresh tokens so the provider session ends
// server-side, then reports the signed-out state.
func (f *Firebase) SignOut(ctx context.Context, id *Identity) error {
	defer f.listeners.Emit(nil)
	if id == nil || id.UID == "" {
		return nil
	}
	if err := f.authority.RevokeRefreshTokens(ctx, id.UID); err != nil {
		return fmt.Errorf("failed to revoke session for %s: %w", id.UID, err)
	}
	return nil
}

func (f *Firebase) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := f.authority.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	email, _ := token.Claims["email"].(string)
	return &Identity{
		UID:       token.UID,
		Email:     email,
		IDToken:   idToken,
		ExpiresAt: time.Unix(token.Expires, 0),
	}, nil
}

// ChangePassword re-authenticates with the current password before updating.
func (f *Firebase) ChangePassword(ctx context.Context, id *Identity, currentPassword, newPassword string) error {
	if _, err := f.verifyPassword(ctx, id.Email, currentPassword); err != nil {
		return err
	}
	params := (&auth.UserToUpdate{}).Password(newPassword)
	if _, err := f.authority.UpdateUser(ctx, id.UID, params); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (f *Firebase) Current() *Identity {
	return f.listeners.Current()
}

func (f *Firebase) OnAuthStateChange(fn func(*Identity)) func() {
	return f.listeners.Subscribe(fn)
}

func isCredentialError(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusBadRequest {
		return false
	}
	for _, reason := range []string{"INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED"} {
		if strings.Contains(gerr.Message, reason) {
			return true
		}
	}
	return false
}
