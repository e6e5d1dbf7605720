// Package apptoken mints the short-lived JSON Web Tokens that authenticate a
// GitHub App against the GitHub API.
//
// [Manager.Token] returns a token that is valid for at least RefreshMargin.
// A new token is signed when none was created yet or the held one expires
// within the margin. Refreshing is serialized, concurrent callers that
// observe an expiring token cause a single refresh.
package apptoken

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/logfields"
	"github.com/simplesurance/pinbump/internal/pinerr"
)

const loggerName = "apptoken"

const (
	// TokenLifetime is the validity period of a minted token.
	// GitHub rejects app tokens that are valid for more than 10 minutes.
	TokenLifetime = 600 * time.Second
	// RefreshMargin is the minimum remaining validity of a token returned
	// by Token().
	RefreshMargin = 60 * time.Second
)

// ErrNotConfigured is returned by an inert Manager.
var ErrNotConfigured = errors.New("github app id and private key are not configured")

// Credential is a signed GitHub App token and its validity period.
// A Credential is never modified after it was created.
type Credential struct {
	Issuer    string
	Token     string
	NotBefore time.Time
	NotAfter  time.Time
}

// ValidAt returns true if the credential is valid at t for at least margin.
func (c *Credential) ValidAt(t time.Time, margin time.Duration) bool {
	return !t.Before(c.NotBefore) && t.Add(margin).Before(c.NotAfter)
}

// Manager holds the current Credential of a GitHub App and replaces it
// when it is about to expire.
type Manager struct {
	appID          string
	privateKeyPath string

	clock  clockwork.Clock
	logger *zap.Logger

	lock sync.Mutex
	key  *rsa.PrivateKey
	cred *Credential
}

type Option func(*Manager)

// WithClock sets the clock that is used to determine the validity period of
// tokens.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// New returns a Manager that signs tokens for the GitHub App appID with the
// PEM encoded RSA private key stored at privateKeyPath.
// The key is read when the first token is minted.
//
// If appID and privateKeyPath are empty, an inert Manager is returned:
// Configured() returns false and Token() fails with ErrNotConfigured.
// If only one of both is set, a *pinerr.ConfigError is returned.
func New(appID, privateKeyPath string, opts ...Option) (*Manager, error) {
	if appID == "" && privateKeyPath != "" {
		return nil, pinerr.NewConfigError("github_app_id", errors.New("github app id is empty but a private key file is set"))
	}

	if appID != "" && privateKeyPath == "" {
		return nil, pinerr.NewConfigError("github_app_key_file", errors.New("private key file is empty but a github app id is set"))
	}

	m := Manager{
		appID:          appID,
		privateKeyPath: privateKeyPath,
		clock:          clockwork.NewRealClock(),
		logger:         zap.L().Named(loggerName),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return &m, nil
}

// Configured returns true if an app id and private key are configured.
func (m *Manager) Configured() bool {
	return m.appID != ""
}

// Token returns the signed JWT of a Credential that is valid for at least
// RefreshMargin.
func (m *Manager) Token() (string, error) {
	cred, err := m.Credential()
	if err != nil {
		return "", err
	}

	return cred.Token, nil
}

// Credential returns the current Credential.
// If no Credential exists or it expires within RefreshMargin, a new one is
// created.
// Errors from reading the private key or signing are returned as
// *pinerr.ConfigError.
func (m *Manager) Credential() (*Credential, error) {
	if !m.Configured() {
		return nil, ErrNotConfigured
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	now := m.clock.Now()
	if m.cred != nil && m.cred.ValidAt(now, RefreshMargin) {
		return m.cred, nil
	}

	cred, err := m.mint(now)
	if err != nil {
		return nil, err
	}

	m.logger.Debug(
		"github app token created",
		logfields.Event("github_app_token_created"),
		zap.String("github_app_id", m.appID),
		zap.Time("token_expires_at", cred.NotAfter),
	)

	m.cred = cred

	return cred, nil
}

func (m *Manager) mint(now time.Time) (*Credential, error) {
	if m.key == nil {
		key, err := loadRSAPrivateKey(m.privateKeyPath)
		if err != nil {
			return nil, pinerr.NewConfigError("github_app_key_file", err)
		}

		m.key = key
	}

	notAfter := now.Add(TokenLifetime)
	claims := jwt.RegisteredClaims{
		Issuer:    m.appID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(notAfter),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(m.key)
	if err != nil {
		return nil, pinerr.NewConfigError("github_app_key_file", fmt.Errorf("signing token failed: %w", err))
	}

	return &Credential{
		Issuer:    m.appID,
		Token:     signed,
		NotBefore: now,
		NotAfter:  notAfter,
	}, nil
}

func loadRSAPrivateKey(path string) (*rsa.PrivateKey, error) {
	pemData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading private key file failed: %w", err)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemData)
	if err != nil {
		return nil, fmt.Errorf("parsing private key file %q failed: %w", path, err)
	}

	return key, nil
}
