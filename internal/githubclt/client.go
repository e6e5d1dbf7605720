// Package githubclt provides a github API client.
package githubclt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v43/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/simplesurance/pinbump/internal/logfields"
	"github.com/simplesurance/pinbump/internal/pinerr"
)

const DefaultHTTPClientTimeout = time.Minute

const loggerName = "github_client"

// ErrNotFound is returned when a requested object does not exist.
var ErrNotFound = errors.New("not found")

// Client is an github API client.
// All methods return a pinerr.RetryableError when an operation can be retried.
// This can be e.g. the case when the API ratelimit is exceeded.
type Client struct {
	restClt    *github.Client
	graphQLClt *githubv4.Client
	logger     *zap.Logger
}

type options struct {
	baseURL    string
	graphQLURL string
	httpClient *http.Client
}

type Option func(*options)

// WithBaseURL sets the URL of the REST API, e.g. for GitHub Enterprise.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithGraphQLURL sets the URL of the GraphQL API endpoint.
func WithGraphQLURL(u string) Option {
	return func(o *options) {
		o.graphQLURL = u
	}
}

// WithHTTPClient sets the HTTP client that is used instead of one
// authenticating with the oauth token.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// New returns a new github api client.
func New(oauthAPItoken string, opts ...Option) (*Client, error) {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient(oauthAPItoken)
	}

	restClt := github.NewClient(httpClient)
	if o.baseURL != "" {
		u, err := url.Parse(o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base url failed: %w", err)
		}

		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}

		restClt.BaseURL = u
	}

	graphQLClt := githubv4.NewClient(httpClient)
	if o.graphQLURL != "" {
		graphQLClt = githubv4.NewEnterpriseClient(o.graphQLURL, httpClient)
	}

	return &Client{
		restClt:    restClt,
		graphQLClt: graphQLClt,
		logger:     zap.L().Named(loggerName),
	}, nil
}

func newHTTPClient(apiToken string) *http.Client {
	if apiToken == "" {
		return &http.Client{
			Timeout: DefaultHTTPClientTimeout,
		}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: apiToken},
	)

	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultHTTPClientTimeout

	return tc
}

func isNotFoundErr(err error) bool {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
	}

	return false
}

func (clt *Client) wrapRetryableErrors(err error) error {
	switch v := err.(type) {
	case *github.RateLimitError:
		clt.logger.Info(
			"rate limit exceeded",
			logfields.Event("github_api_rate_limit_exceeded"),
			zap.Int("github_api_rate_limit", v.Rate.Limit),
			zap.Time("github_api_rate_limit_reset_time", v.Rate.Reset.Time),
		)

		return pinerr.NewRetryableError(err, v.Rate.Reset.Time)

	case *github.AbuseRateLimitError:
		clt.logger.Info(
			"secondary rate limit exceeded",
			logfields.Event("github_api_secondary_rate_limit_exceeded"),
			zap.Durationp("github_api_retry_after", v.RetryAfter),
		)

		if v.RetryAfter != nil {
			return pinerr.NewRetryableError(err, time.Now().Add(*v.RetryAfter))
		}

		return pinerr.NewRetryableAnytimeError(err)

	case *github.ErrorResponse:
		if v.Response.StatusCode >= 500 && v.Response.StatusCode < 600 {
			return pinerr.NewRetryableAnytimeError(err)
		}
	}

	return err
}

var graphQlHTTPStatusErrRe = regexp.MustCompile(`^non-200 OK status code: ([0-9]+) .*`)

func (clt *Client) wrapGraphQLRetryableErrors(err error) error {
	matches := graphQlHTTPStatusErrRe.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return err
	}

	errcode, atoiErr := strconv.Atoi(matches[1])
	if atoiErr != nil {
		clt.logger.Info(
			"parsing http code from error string failed",
			zap.Error(atoiErr),
			zap.String("error_string", err.Error()),
			zap.String("http_errcode", matches[1]),
		)
		return err
	}

	if errcode >= 500 && errcode < 600 {
		return pinerr.NewRetryableAnytimeError(err)
	}

	return err
}
