package githubclt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-github/v43/github"
	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/logfields"
)

// Fork creates a fork of repo in the account of the authenticated user and
// returns it.
// If the fork already exists, the existing one is returned.
// Github creates forks asynchronously, the fork might not be accessible
// immediately.
func (clt *Client) Fork(ctx context.Context, repo ghrepo.Ref) (ghrepo.Ref, error) {
	fork, _, err := clt.restClt.Repositories.CreateFork(ctx, repo.Owner, repo.Name, &github.RepositoryCreateForkOptions{})
	if err != nil {
		var acceptedErr *github.AcceptedError
		if !errors.As(err, &acceptedErr) {
			return ghrepo.Ref{}, clt.wrapRetryableErrors(err)
		}

		clt.logger.Debug(
			"fork creation scheduled",
			append(repo.LogFields(), logfields.Event("github_fork_scheduled"))...,
		)

		fork = &github.Repository{}
		if err := json.Unmarshal(acceptedErr.Raw, fork); err != nil {
			return ghrepo.Ref{}, fmt.Errorf("parsing fork creation response failed: %w", err)
		}
	}

	result, err := ghrepo.ParseRef(fork.GetFullName())
	if err != nil {
		return ghrepo.Ref{}, fmt.Errorf("fork creation response contains invalid repository name: %w", err)
	}

	return result, nil
}

// BranchHead returns the SHA of the commit that branch points to.
// If the branch does not exist, an error wrapping ErrNotFound is returned.
func (clt *Client) BranchHead(ctx context.Context, repo ghrepo.Ref, branch string) (string, error) {
	ref, _, err := clt.restClt.Git.GetRef(ctx, repo.Owner, repo.Name, "heads/"+branch)
	if err != nil {
		if isNotFoundErr(err) {
			return "", fmt.Errorf("branch %s in %s: %w", branch, repo, ErrNotFound)
		}

		return "", clt.wrapRetryableErrors(err)
	}

	return ref.GetObject().GetSHA(), nil
}

// EnsureBranch ensures that branch exists in repo and points to baseSHA.
// An existing branch is force updated.
func (clt *Client) EnsureBranch(ctx context.Context, repo ghrepo.Ref, branch, baseSHA string) error {
	logger := clt.logger.With(append(repo.LogFields(), logfields.Branch(branch), logfields.Commit(baseSHA))...)

	ref := github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: &baseSHA},
	}

	head, err := clt.BranchHead(ctx, repo, branch)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		if _, _, err := clt.restClt.Git.CreateRef(ctx, repo.Owner, repo.Name, &ref); err != nil {
			return clt.wrapRetryableErrors(err)
		}

		logger.Debug("branch created", logfields.Event("github_branch_created"))

		return nil
	}

	if head == baseSHA {
		return nil
	}

	if _, _, err := clt.restClt.Git.UpdateRef(ctx, repo.Owner, repo.Name, &ref, true); err != nil {
		return clt.wrapRetryableErrors(err)
	}

	logger.Debug(
		"branch reset",
		logfields.Event("github_branch_reset"),
		zap.String("git.previous_commit", head),
	)

	return nil
}

// CommitFile creates a commit on branch that changes the file at path to
// content.
// sha must be the blob SHA of the file that is replaced.
// The SHA of the created commit is returned.
func (clt *Client) CommitFile(ctx context.Context, repo ghrepo.Ref, branch, path string, content []byte, sha, message string) (string, error) {
	res, _, err := clt.restClt.Repositories.UpdateFile(ctx, repo.Owner, repo.Name, path, &github.RepositoryContentFileOptions{
		Message: &message,
		Content: content,
		SHA:     &sha,
		Branch:  &branch,
	})
	if err != nil {
		return "", clt.wrapRetryableErrors(err)
	}

	return res.Commit.GetSHA(), nil
}

// CreatePullRequest creates a pull request in repo and returns its URL.
// head is the branch that contains the changes, for a branch in a fork it
// has the format <owner>:<branch>.
func (clt *Client) CreatePullRequest(ctx context.Context, repo ghrepo.Ref, head, base, title, body string) (string, error) {
	pr, _, err := clt.restClt.PullRequests.Create(ctx, repo.Owner, repo.Name, &github.NewPullRequest{
		Title:               &title,
		Head:                &head,
		Base:                &base,
		Body:                &body,
		MaintainerCanModify: github.Bool(true),
	})
	if err != nil {
		return "", clt.wrapRetryableErrors(err)
	}

	return pr.GetHTMLURL(), nil
}
