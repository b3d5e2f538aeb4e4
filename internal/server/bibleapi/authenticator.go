package bibleapi

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/logging"
	"golang.org/x/sync/singleflight"
)

// DefaultRefreshWindow caps how long a credential is reused regardless of
// the expiry the provider announced.
const DefaultRefreshWindow = time.Hour

// Credential is a live session with the provider. It is owned by the
// Authenticator and replaced as a whole, never mutated.
type Credential struct {
	SubjectID   string
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Valid       bool
}

// Usable reports whether the credential may still be sent: it must be valid,
// younger than window, and not past the provider expiry.
func (c *Credential) Usable(now time.Time, window time.Duration) bool {
	if c == nil || !c.Valid || c.AccessToken == "" {
		return false
	}
	return now.Before(c.IssuedAt.Add(window)) && now.Before(c.ExpiresAt)
}

type tokenIssuer interface {
	Authenticate(ctx context.Context, username, password string) (*AuthResult, error)
}

// Authenticator obtains and caches the provider bearer token.
type Authenticator struct {
	issuer   tokenIssuer
	username string
	password string
	window   time.Duration
	logger   logging.Logger
	now      func() time.Time

	current atomic.Pointer[Credential]
	group   singleflight.Group
}

func NewAuthenticator(issuer tokenIssuer, username, password string, window time.Duration, logger logging.Logger) *Authenticator {
	if window <= 0 {
		window = DefaultRefreshWindow
	}
	return &Authenticator{
		issuer:   issuer,
		username: username,
		password: password,
		window:   window,
		logger:   logger.With("module", "bibleapi_auth"),
		now:      time.Now,
	}
}

// Authenticate returns a usable access token, exchanging the configured
// username and password for a new one when the held credential is stale.
// Concurrent callers that find the credential stale share one exchange.
func (a *Authenticator) Authenticate(ctx context.Context) (string, error) {
	if c := a.current.Load(); c.Usable(a.now(), a.window) {
		return c.AccessToken, nil
	}

	v, err, _ := a.group.Do("credential", func() (any, error) {
		// another caller may have finished an exchange meanwhile
		if c := a.current.Load(); c.Usable(a.now(), a.window) {
			return c.AccessToken, nil
		}
		a.current.Store(nil)

		// the exchange is shared, so one caller's cancellation must not fail the rest
		cred, err := a.exchange(context.WithoutCancel(ctx))
		if err != nil {
			return "", err
		}
		a.current.Store(cred)
		return cred.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the held credential so the next Authenticate call
// performs a fresh exchange.
func (a *Authenticator) Invalidate() {
	a.current.Store(nil)
}

func (a *Authenticator) exchange(ctx context.Context) (*Credential, error) {
	issuedAt := a.now()

	res, err := a.issuer.Authenticate(ctx, a.username, a.password)
	if err != nil {
		a.logger.Error(ctx, "provider authentication failed", "error", err)
		return nil, err
	}
	if !res.Success || res.AccessToken == "" || res.ExpiresAt.IsZero() {
		a.logger.Error(ctx, "provider rejected credentials", "success", res.Success)
		return nil, fmt.Errorf("%w: unexpected authentication response", common.ErrAuthentication)
	}

	a.logger.Info(ctx, "provider credential issued", "subject", res.SubjectID, "expires_at", res.ExpiresAt)

	return &Credential{
		SubjectID:   res.SubjectID,
		AccessToken: res.AccessToken,
		IssuedAt:    issuedAt,
		ExpiresAt:   res.ExpiresAt,
		Valid:       res.Success,
	}, nil
}
