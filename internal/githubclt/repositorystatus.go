package githubclt

import (
	"context"
	"errors"
	"strings"

	"github.com/shurcooL/githubv4"

	"github.com/simplesurance/pinbump/internal/ghrepo"
)

// PullRequest identifies an existing pull request.
type PullRequest struct {
	Number int
	URL    string
	// HeadOwner is the owner of the repository containing the head
	// branch.
	HeadOwner string
}

// RepositoryStatus contains the state of a repository that is relevant for
// submitting a change to it.
type RepositoryStatus struct {
	Archived          bool
	DefaultBranch     string
	DefaultBranchHead string
	// OpenPullRequests are the open pull requests from branches named
	// like the queried head branch.
	OpenPullRequests []*PullRequest
}

// OpenPullRequestFrom returns the open pull request with a head branch in
// the repository of owner.
// If none exists, nil is returned.
func (s *RepositoryStatus) OpenPullRequestFrom(owner string) *PullRequest {
	for _, pr := range s.OpenPullRequests {
		if strings.EqualFold(pr.HeadOwner, owner) {
			return pr
		}
	}

	return nil
}

// RepositoryStatus returns the status of repo and the open pull requests
// from branches named headBranch.
func (clt *Client) RepositoryStatus(ctx context.Context, repo ghrepo.Ref, headBranch string) (*RepositoryStatus, error) {
	var q struct {
		Repository struct {
			IsArchived       bool
			DefaultBranchRef *struct {
				Name   string
				Target struct {
					Oid githubv4.GitObjectID
				}
			}
			PullRequests struct {
				Nodes []struct {
					Number              int
					URL                 string
					HeadRepositoryOwner *struct {
						Login string
					}
				}
			} `graphql:"pullRequests(first: 20, states: OPEN, headRefName: $headRefName)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	vars := map[string]any{
		"owner":       githubv4.String(repo.Owner),
		"name":        githubv4.String(repo.Name),
		"headRefName": githubv4.String(headBranch),
	}

	if err := clt.graphQLClt.Query(ctx, &q, vars); err != nil {
		return nil, clt.wrapGraphQLRetryableErrors(err)
	}

	if q.Repository.DefaultBranchRef == nil {
		return nil, errors.New("repository has no default branch")
	}

	result := RepositoryStatus{
		Archived:          q.Repository.IsArchived,
		DefaultBranch:     q.Repository.DefaultBranchRef.Name,
		DefaultBranchHead: string(q.Repository.DefaultBranchRef.Target.Oid),
	}

	for _, pr := range q.Repository.PullRequests.Nodes {
		// the owner is unset when the head repository was deleted
		if pr.HeadRepositoryOwner == nil {
			continue
		}

		result.OpenPullRequests = append(result.OpenPullRequests, &PullRequest{
			Number:    pr.Number,
			URL:       pr.URL,
			HeadOwner: pr.HeadRepositoryOwner.Login,
		})
	}

	return &result, nil
}
