// ABOUTME: Session provider: login, logout, and persisted-session resolution.
// ABOUTME: Owns the identity state machine and fans out changes to stores.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/cache"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/store"
)

// State is the identity lifecycle phase.
type State int

const (
	// StateUnauthenticated means no identity is present.
	StateUnauthenticated State = iota
	// StateResolving means a persisted session is being validated.
	StateResolving
	// StateAuthenticated means a user is signed in.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

const profilesTable = "profiles"

// expiryLeeway treats tokens about to expire as already expired so a
// resolved session does not die mid-command.
const expiryLeeway = time.Minute

// persistedSession is the on-disk session file format.
type persistedSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
}

// Provider owns the current identity. It implements store.Identity.
type Provider struct {
	client *store.Client
	cache  *cache.Cache
	log    zerolog.Logger
	path   string

	mu      sync.RWMutex
	state   State
	user    *models.User
	subs    map[int]func(*models.User)
	nextSub int
}

// NewProvider creates an unauthenticated provider. path is the session
// file location; cache may be nil.
func NewProvider(client *store.Client, c *cache.Cache, path string, log zerolog.Logger) *Provider {
	return &Provider{
		client: client,
		cache:  c,
		log:    log.With().Str("component", "session").Logger(),
		path:   path,
		subs:   make(map[int]func(*models.User)),
	}
}

// State returns the current lifecycle phase.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (p *Provider) CurrentUser() *models.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

// Subscribe registers a callback for identity changes. The callback gets
// the new user on login and nil on logout. Returns an unsubscribe func.
func (p *Provider) Subscribe(fn func(*models.User)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *Provider) notify(u *models.User) {
	p.mu.RLock()
	subs := make([]func(*models.User), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.RUnlock()
	for _, fn := range subs {
		fn(u)
	}
}

func (p *Provider) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

// Resolve restores a persisted session if one exists and its token is
// still valid. A missing or expired session leaves the provider
// unauthenticated without error; only transport failures are errors.
func (p *Provider) Resolve(ctx context.Context) error {
	p.setState(StateResolving)

	sess, err := p.loadSession()
	if err != nil {
		p.setState(StateUnauthenticated)
		return err
	}
	if sess == nil || tokenExpired(sess.AccessToken, time.Now()) {
		if sess != nil {
			p.log.Debug().Msg("persisted session expired")
			_ = p.clearSession()
		}
		p.setState(StateUnauthenticated)
		return nil
	}

	p.client.SetToken(sess.AccessToken)
	authUser, err := p.client.GetAuthUser(ctx)
	if err != nil {
		p.client.ClearToken()
		p.setState(StateUnauthenticated)
		var re *store.RemoteError
		if errors.As(err, &re) && (re.Status == 401 || re.Status == 403) {
			// The server rejected the token; the session is dead.
			p.log.Debug().Msg("persisted session rejected")
			_ = p.clearSession()
			return nil
		}
		return err
	}

	user := userFromAuth(authUser)
	p.mergeProfile(ctx, user)

	p.mu.Lock()
	p.user = user
	p.state = StateAuthenticated
	p.mu.Unlock()
	p.notify(p.CurrentUser())
	return nil
}

// Login signs in with email and password, persists the session, and
// notifies subscribers. Rejected credentials surface as
// store.ErrInvalidCredentials, distinct from transport failures.
func (p *Provider) Login(ctx context.Context, email, password string) (*models.User, error) {
	sess, err := p.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	p.client.SetToken(sess.AccessToken)
	user := userFromAuth(&sess.User)
	p.mergeProfile(ctx, user)

	if err := p.saveSession(&persistedSession{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		UserID:       user.ID,
		Email:        user.Email,
	}); err != nil {
		p.log.Warn().Err(err).Msg("session persist failed")
	}

	p.mu.Lock()
	p.user = user
	p.state = StateAuthenticated
	p.mu.Unlock()

	out := p.CurrentUser()
	p.notify(out)
	return out, nil
}

// Logout ends the session everywhere: server-side (best effort), the
// client token, the persisted file, and the local cache.
func (p *Provider) Logout(ctx context.Context) error {
	if p.State() == StateAuthenticated {
		if err := p.client.SignOut(ctx); err != nil {
			p.log.Warn().Err(err).Msg("server sign-out failed")
		}
	}

	p.mu.Lock()
	user := p.user
	p.user = nil
	p.state = StateUnauthenticated
	p.mu.Unlock()

	p.client.ClearToken()
	if err := p.clearSession(); err != nil {
		p.log.Warn().Err(err).Msg("session file removal failed")
	}
	if p.cache != nil && user != nil {
		if err := p.cache.ClearUser(user.ID); err != nil {
			p.log.Warn().Err(err).Msg("cache clear failed")
		}
	}

	p.notify(nil)
	return nil
}

// RefreshUser refetches the auth identity and profile for the signed-in
// user. Used after metadata updates such as a new avatar.
func (p *Provider) RefreshUser(ctx context.Context) (*models.User, error) {
	if p.State() != StateAuthenticated {
		return nil, store.ErrNotAuthenticated
	}

	authUser, err := p.client.GetAuthUser(ctx)
	if err != nil {
		return nil, err
	}
	user := userFromAuth(authUser)
	p.mergeProfile(ctx, user)

	p.mu.Lock()
	p.user = user
	p.mu.Unlock()

	out := p.CurrentUser()
	p.notify(out)
	return out, nil
}

// mergeProfile overlays the profile row onto the user. Profile absence
// and fetch failures are non-fatal; auth metadata stands alone.
func (p *Provider) mergeProfile(ctx context.Context, user *models.User) {
	rows, err := p.client.SelectRows(ctx, profilesTable, store.Query{
		Filters: []store.Filter{store.Eq("id", user.ID)},
		Limit:   1,
	})
	if err != nil {
		p.log.Debug().Err(err).Msg("profile fetch failed")
		return
	}
	if len(rows) == 0 {
		return
	}

	data, err := json.Marshal(rows[0])
	if err != nil {
		return
	}
	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		p.log.Debug().Err(err).Msg("profile decode failed")
		return
	}
	user.MergeProfile(&profile)
}

func userFromAuth(au *store.AuthUser) *models.User {
	user := &models.User{
		ID:        au.ID,
		Email:     au.Email,
		CreatedAt: au.CreatedAt,
	}
	if name, ok := au.UserMetadata["full_name"].(string); ok && name != "" {
		user.FullName = name
	} else if name, ok := au.UserMetadata["name"].(string); ok {
		user.FullName = name
	}
	if avatar, ok := au.UserMetadata["avatar_url"].(string); ok && avatar != "" {
		user.AvatarURL = &avatar
	}
	return user
}

// tokenExpired reports whether the JWT's exp claim has passed. The
// signature is not checked here; the server does that on first use.
func tokenExpired(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.Add(expiryLeeway).After(exp.Time)
}

func (p *Provider) loadSession() (*persistedSession, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess persistedSession
	if err := json.Unmarshal(data, &sess); err != nil {
		// An unreadable file is treated as no session.
		p.log.Debug().Err(err).Msg("session file corrupt")
		return nil, nil
	}
	return &sess, nil
}

func (p *Provider) saveSession(sess *persistedSession) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0600)
}

func (p *Provider) clearSession() error {
	if _, err := os.Stat(p.path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(p.path)
}
