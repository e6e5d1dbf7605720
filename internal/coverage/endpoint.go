package coverage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/pinerr"
)

const (
	pathCoverageAPI      = "coverage_api"
	pathGithubAppInstall = "github_app_installation"
)

const maxErrBodyLen = 1024

// endpoint describes one way to query if the update app is installed for a
// repository.
type endpoint struct {
	name string
	// url returns the URL that is queried for the repository.
	url func(ghrepo.Ref) string
	// authorization returns the value of the Authorization header.
	authorization func() (string, error)
	accept        string
}

func newCoverageAPIEndpoint(baseURL, token string) *endpoint {
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &endpoint{
		name: pathCoverageAPI,
		url: func(ref ghrepo.Ref) string {
			return fmt.Sprintf("%s/api/repos/%s/%s", baseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Name))
		},
		authorization: func() (string, error) {
			return token, nil
		},
		accept: "application/json",
	}
}

func newGithubInstallationEndpoint(baseURL string, tokens TokenSource) *endpoint {
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &endpoint{
		name: pathGithubAppInstall,
		url: func(ref ghrepo.Ref) string {
			return fmt.Sprintf("%s/repos/%s/%s/installation", baseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Name))
		},
		authorization: func() (string, error) {
			token, err := tokens.Token()
			if err != nil {
				return "", err
			}

			return "Bearer " + token, nil
		},
		accept: "application/vnd.github+json",
	}
}

// checkResult is the answer of an endpoint.
type checkResult struct {
	Decision   Decision
	HTTPStatus int
}

// check sends a single request to the endpoint.
// Transport errors are returned as pinerr.RetryableError, responses with a
// status code other than 200 and 404 as *StatusError.
func (c *Checker) check(ctx context.Context, ep *endpoint, ref ghrepo.Ref) (*checkResult, error) {
	auth, err := ep.authorization()
	if err != nil {
		return nil, fmt.Errorf("creating authorization header failed: %w", err)
	}

	ctx, cancelFn := context.WithTimeout(ctx, c.requestTimeout)
	defer cancelFn()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.url(ref), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", ep.accept)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pinerr.NewRetryableAnytimeError(err)
	}

	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &checkResult{Decision: Covered, HTTPStatus: resp.StatusCode}, nil

	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &checkResult{Decision: NotCovered, HTTPStatus: resp.StatusCode}, nil

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyLen))
		return nil, &StatusError{
			Path:   ep.name,
			Status: resp.StatusCode,
			Body:   body,
		}
	}
}
