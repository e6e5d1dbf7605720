// Package coverage determines if a repository is already kept up to date by
// an automated dependency update app (e.g. Renovate).
//
// Two check paths are queried in order. The primary path is the reporting
// API of a self-hosted update app server, the fallback path is the GitHub
// App installation endpoint, authenticated with a GitHub App token. Each
// path is retried on transport errors. The fallback path is only queried
// when the primary path failed. A definitive answer (HTTP 200 or 404) of
// either path ends the check.
package coverage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/logfields"
	"github.com/simplesurance/pinbump/internal/pinerr"
	"github.com/simplesurance/pinbump/internal/retryer"
)

const loggerName = "coverage"

const (
	DefGithubAPIURL       = "https://api.github.com"
	DefRetries            = 1
	DefRetryBackoff       = time.Second
	DefHTTPRequestTimeout = 30 * time.Second
)

// TokenSource provides GitHub App tokens.
type TokenSource interface {
	// Configured returns false if no GitHub App is configured.
	Configured() bool
	Token() (string, error)
}

// Config configures a Checker.
// Zero values of RetryBackoff, RequestTimeout and GithubAPIURL are replaced
// by their defaults. Retries is used as is, 0 disables retries.
type Config struct {
	// CoverageAPIURL is the base URL of the update app server reporting
	// API. If it is empty, the primary path is not used.
	CoverageAPIURL string
	// CoverageAPIToken is sent as Authorization header to the reporting API.
	CoverageAPIToken string

	// GithubAPIURL is the base URL of the GitHub REST API.
	GithubAPIURL string
	// AppTokens provides the tokens for the fallback path. If it is nil or
	// not configured, the fallback path is not used.
	AppTokens TokenSource

	Retries        uint64
	RetryBackoff   time.Duration
	RequestTimeout time.Duration

	Policy Policy
}

// Checker checks if an automated update app is installed for a repository.
type Checker struct {
	endpoints      []*endpoint
	client         *http.Client
	retryer        *retryer.Retryer
	requestTimeout time.Duration
	policy         Policy
	logger         *zap.Logger
}

type Option func(*Checker)

// WithHTTPClient sets the HTTP client that is used for all requests.
func WithHTTPClient(clt *http.Client) Option {
	return func(c *Checker) {
		c.client = clt
	}
}

func New(cfg Config, opts ...Option) *Checker {
	if cfg.GithubAPIURL == "" {
		cfg.GithubAPIURL = DefGithubAPIURL
	}

	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = DefRetryBackoff
	}

	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefHTTPRequestTimeout
	}

	c := Checker{
		requestTimeout: cfg.RequestTimeout,
		policy:         cfg.Policy,
		logger:         zap.L().Named(loggerName),
	}

	if cfg.CoverageAPIURL != "" {
		c.endpoints = append(c.endpoints, newCoverageAPIEndpoint(cfg.CoverageAPIURL, cfg.CoverageAPIToken))
	}

	if cfg.AppTokens != nil && cfg.AppTokens.Configured() {
		c.endpoints = append(c.endpoints, newGithubInstallationEndpoint(cfg.GithubAPIURL, cfg.AppTokens))
	}

	for _, opt := range opts {
		opt(&c)
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: cfg.RequestTimeout}
	}

	c.retryer = retryer.New(cfg.Retries, cfg.RetryBackoff, retryer.WithLogger(c.logger.Named("retryer")))

	if len(c.endpoints) == 0 {
		c.logger.Info(
			"no installation check path is configured, all repositories are considered as not covered",
			logfields.Event("coverage_check_not_configured"),
		)
	}

	return &c
}

// Paths returns the names of the configured check paths in the order they
// are queried.
func (c *Checker) Paths() []string {
	result := make([]string, 0, len(c.endpoints))
	for _, ep := range c.endpoints {
		result = append(result, ep.name)
	}

	return result
}

// Decide queries the configured check paths in order until one returns a
// definitive answer.
//
// If no path is configured, NotCovered is returned.
// If all paths failed, Indeterminate and an error wrapping ErrIndeterminate
// is returned.
// If creating the GitHub App token fails because of a configuration error,
// Indeterminate and the *pinerr.ConfigError is returned without querying
// further paths.
func (c *Checker) Decide(ctx context.Context, ref ghrepo.Ref) (Decision, error) {
	if len(c.endpoints) == 0 {
		return NotCovered, nil
	}

	var pathErrs []error
	logger := c.logger.With(ref.LogFields()...)

	for _, ep := range c.endpoints {
		logger := logger.With(logfields.CheckPath(ep.name))

		res, err := c.runPath(ctx, ep, ref)
		if err == nil {
			logger.Info(
				"installation status retrieved",
				logfields.Event("coverage_check_answered"),
				logfields.HTTPStatus(res.HTTPStatus),
				zap.Stringer("coverage.decision", res.Decision),
			)

			metrics.PathAnswered(ep.name, res.Decision)
			metrics.DecisionInc(res.Decision)

			return res.Decision, nil
		}

		metrics.PathFailed(ep.name)

		var cfgErr *pinerr.ConfigError
		if errors.As(err, &cfgErr) {
			logger.Error(
				"installation check failed, github app is misconfigured",
				logfields.Event("coverage_check_config_error"),
				zap.Error(err),
			)

			metrics.DecisionInc(Indeterminate)
			return Indeterminate, err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			metrics.DecisionInc(Indeterminate)
			return Indeterminate, fmt.Errorf("%w: %w", ErrIndeterminate, err)
		}

		logFields := []zap.Field{
			logfields.Event("coverage_check_path_failed"),
			zap.Error(err),
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			logFields = append(logFields, logfields.HTTPStatus(statusErr.Status))
		}

		logger.Warn("installation check path failed", logFields...)

		pathErrs = append(pathErrs, fmt.Errorf("%s: %w", ep.name, err))
	}

	metrics.DecisionInc(Indeterminate)

	return Indeterminate, fmt.Errorf("%w: %w", ErrIndeterminate, errors.Join(pathErrs...))
}

func (c *Checker) runPath(ctx context.Context, ep *endpoint, ref ghrepo.Ref) (*checkResult, error) {
	var res *checkResult

	err := c.retryer.Run(ctx, func(ctx context.Context) error {
		var err error

		res, err = c.check(ctx, ep, ref)
		return err
	}, append(ref.LogFields(), logfields.CheckPath(ep.name)))
	if err != nil {
		return nil, err
	}

	return res, nil
}

// IsCoverageInstalled returns true if an automated update app is installed
// for the repository.
//
// If the decision is Indeterminate, the result depends on the Policy: With
// FailClosed false and a nil error is returned, with PropagateError false
// and an error wrapping ErrIndeterminate.
// A *pinerr.ConfigError is always returned.
func (c *Checker) IsCoverageInstalled(ctx context.Context, ref ghrepo.Ref) (bool, error) {
	decision, err := c.Decide(ctx, ref)
	switch decision {
	case Covered:
		return true, nil

	case NotCovered:
		return false, nil
	}

	var cfgErr *pinerr.ConfigError
	if errors.As(err, &cfgErr) || c.policy == PropagateError {
		return false, err
	}

	c.logger.Warn(
		"installation status is indeterminate, assuming it is not installed",
		append(ref.LogFields(),
			logfields.Event("coverage_check_indeterminate"),
			zap.Stringer("coverage.policy", c.policy),
			zap.Error(err),
		)...,
	)

	return false, nil
}
