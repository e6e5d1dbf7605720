package githubclt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/optin"
	"github.com/simplesurance/pinbump/internal/pinerr"
)

var (
	parentRepo = ghrepo.Ref{Owner: "simplesurance", Name: "baseimages"}
	forkRepo   = ghrepo.Ref{Owner: "pinbump-bot", Name: "baseimages"}
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	clt, err := New(
		"",
		WithBaseURL(srv.URL),
		WithGraphQLURL(srv.URL+"/graphql"),
		WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return clt
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestWrapRetryableErrorsGraphql(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	// is the same then in vendor/github.com/shurcooL/graphql/graphql.go do()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(503)
	}))

	t.Cleanup(srv.Close)

	clt := Client{
		logger:     zap.L(),
		graphQLClt: githubv4.NewEnterpriseClient(srv.URL, srv.Client()),
	}

	s, err := clt.RepositoryStatus(context.Background(), parentRepo, "pinbump")
	require.Error(t, err)
	assert.Nil(t, s)

	var retryableErr *pinerr.RetryableError
	assert.ErrorAs(t, err, &retryableErr)
}

func TestWrapRetryableErrorsGraphqlWithNonStatusErr(t *testing.T) {
	err := errors.New("error")
	wrappedErr := (&Client{}).wrapGraphQLRetryableErrors(err)
	assert.Equal(t, err, wrappedErr)
}

func TestRateLimitErrorIsRetryable(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	reset := time.Now().Add(time.Hour).Truncate(time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/simplesurance/baseimages/contents/Dockerfile", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		writeJSON(t, w, http.StatusForbidden, map[string]string{"message": "API rate limit exceeded"})
	})

	clt := newTestClient(t, mux)

	_, err := clt.FileContent(context.Background(), parentRepo, "Dockerfile")
	require.Error(t, err)

	var retryableErr *pinerr.RetryableError
	require.ErrorAs(t, err, &retryableErr)
	assert.True(t, reset.Equal(retryableErr.After))
}

func TestServerErrorIsRetryable(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/simplesurance/baseimages/contents/Dockerfile", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadGateway, map[string]string{"message": "bad gateway"})
	})

	clt := newTestClient(t, mux)

	_, err := clt.FileContent(context.Background(), parentRepo, "Dockerfile")

	var retryableErr *pinerr.RetryableError
	assert.ErrorAs(t, err, &retryableErr)
}

func TestFileContentNotFound(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/simplesurance/baseimages/contents/.github/renovate.json", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})

	clt := newTestClient(t, mux)

	content, err := clt.FileContent(context.Background(), parentRepo, ".github/renovate.json")
	assert.Nil(t, content)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, optin.ErrFileNotFound)
}

func TestFile(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	const content = "FROM golang:1.21\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/pinbump-bot/baseimages/contents/build/Dockerfile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pinbump", r.URL.Query().Get("ref"))

		writeJSON(t, w, http.StatusOK, map[string]string{
			"type":     "file",
			"encoding": "base64",
			"path":     "build/Dockerfile",
			"sha":      "3d21ec53a331a6f037a91c368710b99387d012c1",
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
		})
	})

	clt := newTestClient(t, mux)

	f, err := clt.File(context.Background(), forkRepo, "build/Dockerfile", "pinbump")
	require.NoError(t, err)
	assert.Equal(t, content, string(f.Content))
	assert.Equal(t, "3d21ec53a331a6f037a91c368710b99387d012c1", f.SHA)
}

func TestSearchCodeIteratesAllPages(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	var srvURL string

	mux := http.NewServeMux()
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang:1.21 in:file filename:Dockerfile", r.URL.Query().Get("q"))

		page := r.URL.Query().Get("page")
		if page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/search/code?page=2>; rel="next", <%s/search/code?page=2>; rel="last"`, srvURL, srvURL))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"total_count": 3,
				"items": []map[string]any{
					{"path": "Dockerfile", "sha": "1", "repository": map[string]any{"full_name": "org/a"}},
					{"path": "build/Dockerfile", "sha": "2", "repository": map[string]any{"full_name": "org/a"}},
				},
			})
			return
		}

		assert.Equal(t, "2", page)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"total_count": 3,
			"items": []map[string]any{
				{"path": "Dockerfile", "sha": "3", "repository": map[string]any{"full_name": "bot/a", "fork": true}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	clt, err := New("", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	it := clt.SearchCode(context.Background(), "golang:1.21 in:file filename:Dockerfile")

	var results []*CodeSearchResult
	for {
		r, err := it.Next()
		require.NoError(t, err)
		if r == nil {
			break
		}

		results = append(results, r)
	}

	require.Len(t, results, 3)
	assert.Equal(t, &CodeSearchResult{Repository: "org/a", Path: "Dockerfile", SHA: "1"}, results[0])
	assert.Equal(t, "build/Dockerfile", results[1].Path)
	assert.Equal(t, &CodeSearchResult{Repository: "bot/a", Fork: true, Path: "Dockerfile", SHA: "3"}, results[2])
}

func TestForkAccepted(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/simplesurance/baseimages/forks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(t, w, http.StatusAccepted, map[string]any{"full_name": "pinbump-bot/baseimages", "fork": true})
	})

	clt := newTestClient(t, mux)

	fork, err := clt.Fork(context.Background(), parentRepo)
	require.NoError(t, err)
	assert.Equal(t, forkRepo, fork)
}

func TestRepositoryStatus(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string
			Variables map[string]any
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "simplesurance", req.Variables["owner"])
		assert.Equal(t, "baseimages", req.Variables["name"])
		assert.Equal(t, "pinbump", req.Variables["headRefName"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"repository": map[string]any{
					"isArchived": false,
					"defaultBranchRef": map[string]any{
						"name":   "main",
						"target": map[string]any{"oid": "a1b2c3"},
					},
					"pullRequests": map[string]any{
						"nodes": []map[string]any{
							{"number": 3, "url": "https://github.com/simplesurance/baseimages/pull/3", "headRepositoryOwner": map[string]any{"login": "someone"}},
							{"number": 7, "url": "https://github.com/simplesurance/baseimages/pull/7", "headRepositoryOwner": map[string]any{"login": "pinbump-bot"}},
						},
					},
				},
			},
		})
	})

	clt := newTestClient(t, mux)

	status, err := clt.RepositoryStatus(context.Background(), parentRepo, "pinbump")
	require.NoError(t, err)

	assert.Equal(t, "main", status.DefaultBranch)
	assert.Equal(t, "a1b2c3", status.DefaultBranchHead)
	assert.False(t, status.Archived)
	require.Len(t, status.OpenPullRequests, 2)

	assert.Equal(t, &PullRequest{
		Number:    7,
		URL:       "https://github.com/simplesurance/baseimages/pull/7",
		HeadOwner: "pinbump-bot",
	}, status.OpenPullRequestFrom("Pinbump-Bot"))
	assert.Nil(t, status.OpenPullRequestFrom("unknown"))
}

func TestEnsureBranchCreatesMissingBranch(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	var created bool

	notFound := func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/pinbump-bot/baseimages/git/ref/heads/pinbump", notFound)
	mux.HandleFunc("/repos/pinbump-bot/baseimages/git/refs/heads/pinbump", notFound)
	mux.HandleFunc("/repos/pinbump-bot/baseimages/git/refs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "refs/heads/pinbump", req["ref"])
		assert.Equal(t, "a1b2c3", req["sha"])

		created = true
		writeJSON(t, w, http.StatusCreated, map[string]any{"ref": "refs/heads/pinbump", "object": map[string]string{"sha": "a1b2c3"}})
	})

	clt := newTestClient(t, mux)

	require.NoError(t, clt.EnsureBranch(context.Background(), forkRepo, "pinbump", "a1b2c3"))
	assert.True(t, created)
}

func TestCommitFile(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/pinbump-bot/baseimages/contents/Dockerfile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req struct {
			Message string
			Content string
			SHA     string
			Branch  string
		}
		require.NoError(t, json.Unmarshal(body, &req))

		assert.Equal(t, "update base image", req.Message)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("FROM golang:1.22\n")), req.Content)
		assert.Equal(t, "blobsha", req.SHA)
		assert.Equal(t, "pinbump", req.Branch)

		writeJSON(t, w, http.StatusOK, map[string]any{"commit": map[string]string{"sha": "commitsha"}})
	})

	clt := newTestClient(t, mux)

	sha, err := clt.CommitFile(context.Background(), forkRepo, "pinbump", "Dockerfile", []byte("FROM golang:1.22\n"), "blobsha", "update base image")
	require.NoError(t, err)
	assert.Equal(t, "commitsha", sha)
}

func TestCreatePullRequest(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/simplesurance/baseimages/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pinbump-bot:pinbump", req["head"])
		assert.Equal(t, "main", req["base"])
		assert.Equal(t, "Update base image", req["title"])

		writeJSON(t, w, http.StatusCreated, map[string]any{"number": 8, "html_url": "https://github.com/simplesurance/baseimages/pull/8"})
	})

	clt := newTestClient(t, mux)

	url, err := clt.CreatePullRequest(context.Background(), parentRepo, "pinbump-bot:pinbump", "main", "Update base image", "")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/simplesurance/baseimages/pull/8", url)
}
