// ABOUTME: Auth endpoints of the remote store: sign-in, sign-out, profile.
// ABOUTME: Distinguishes invalid credentials from other transport failures.
package store

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// AuthUser is the identity record held by the auth service.
type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuthSession is a successful sign-in result.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

// SignIn exchanges credentials for a session. The client does not retain
// the token; callers decide when to install it via SetToken.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	var sess AuthSession
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey).
		SetAuthToken(c.apiKey).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&sess).
		Post("/auth/v1/token")
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if resp.IsError() {
		return nil, remoteErr(resp)
	}
	return &sess, nil
}

// SignOut invalidates the current session server-side.
func (c *Client) SignOut(ctx context.Context) error {
	resp, err := c.req(ctx).Post("/auth/v1/logout")
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if resp.IsError() {
		return remoteErr(resp)
	}
	return nil
}

// GetAuthUser fetches the identity behind the current token.
func (c *Client) GetAuthUser(ctx context.Context) (*AuthUser, error) {
	var user AuthUser
	resp, err := c.req(ctx).SetResult(&user).Get("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("get auth user: %w", err)
	}
	if resp.IsError() {
		return nil, remoteErr(resp)
	}
	return &user, nil
}

// UpdateUserMetadata patches the auth profile metadata (display name,
// avatar reference, biometrics) and returns the updated identity.
func (c *Client) UpdateUserMetadata(ctx context.Context, metadata map[string]any) (*AuthUser, error) {
	var user AuthUser
	resp, err := c.req(ctx).
		SetBody(map[string]any{"data": metadata}).
		SetResult(&user).
		Put("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if resp.IsError() {
		return nil, remoteErr(resp)
	}
	return &user, nil
}
