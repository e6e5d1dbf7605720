// Package pullrequest submits changes of files as pull requests from a fork
// of the repository.
package pullrequest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/batch"
	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/githubclt"
	"github.com/simplesurance/pinbump/internal/logfields"
	"github.com/simplesurance/pinbump/internal/pinerr"
	"github.com/simplesurance/pinbump/internal/retryer"
)

//go:generate mockgen -destination=mocks/githubclient.go -package=mocks . GithubClient

const loggerName = "pull_request"

const (
	DefForkRetries       = 5
	DefForkRetryInterval = 2 * time.Second
)

var (
	ErrArchived       = errors.New("repository is archived")
	ErrNothingChanged = errors.New("no file was changed")
)

// GithubClient defines the github operations that are needed to submit a
// pull request.
type GithubClient interface {
	RepositoryStatus(ctx context.Context, repo ghrepo.Ref, headBranch string) (*githubclt.RepositoryStatus, error)
	Fork(ctx context.Context, repo ghrepo.Ref) (ghrepo.Ref, error)
	BranchHead(ctx context.Context, repo ghrepo.Ref, branch string) (string, error)
	File(ctx context.Context, repo ghrepo.Ref, path, ref string) (*githubclt.File, error)
	EnsureBranch(ctx context.Context, repo ghrepo.Ref, branch, baseSHA string) error
	CommitFile(ctx context.Context, repo ghrepo.Ref, branch, path string, content []byte, sha, message string) (string, error)
	CreatePullRequest(ctx context.Context, repo ghrepo.Ref, head, base, title, body string) (string, error)
}

type Config struct {
	// Branch is the name of the branch in the fork that contains the
	// changes.
	Branch        string
	Title         string
	Body          string
	CommitMessage string

	// ForkRetries is how often it is checked if a newly created fork is
	// accessible.
	ForkRetries       uint64
	ForkRetryInterval time.Duration
}

// Submitter rewrites files and submits the changes as pull request.
type Submitter struct {
	clt      GithubClient
	rewriter Rewriter
	cfg      Config
	retryer  *retryer.Retryer
	logger   *zap.Logger
}

func NewSubmitter(clt GithubClient, rewriter Rewriter, cfg Config) *Submitter {
	if cfg.ForkRetries == 0 {
		cfg.ForkRetries = DefForkRetries
	}

	if cfg.ForkRetryInterval == 0 {
		cfg.ForkRetryInterval = DefForkRetryInterval
	}

	logger := zap.L().Named(loggerName)

	return &Submitter{
		clt:      clt,
		rewriter: rewriter,
		cfg:      cfg,
		retryer:  retryer.New(cfg.ForkRetries, cfg.ForkRetryInterval, retryer.WithLogger(logger.Named("retryer"))),
		logger:   logger,
	}
}

// Submit rewrites the candidate files of repo and commits the changed ones to
// a branch in a fork of repo.
// If no pull request from the branch exists, one is created.
//
// If the repository is archived ErrArchived is returned, if none of the files
// changed ErrNothingChanged.
func (s *Submitter) Submit(ctx context.Context, repo ghrepo.Ref, candidates []batch.Candidate) error {
	logger := s.logger.With(append(repo.LogFields(), logfields.Branch(s.cfg.Branch))...)

	status, err := s.clt.RepositoryStatus(ctx, repo, s.cfg.Branch)
	if err != nil {
		return fmt.Errorf("retrieving repository status failed: %w", err)
	}

	if status.Archived {
		return ErrArchived
	}

	fork, err := s.clt.Fork(ctx, repo)
	if err != nil {
		return fmt.Errorf("forking repository failed: %w", err)
	}

	logger = logger.With(zap.Stringer("github.fork", fork))

	if err := s.waitForFork(ctx, fork, status.DefaultBranch); err != nil {
		return fmt.Errorf("fork %s is not accessible: %w", fork, err)
	}

	err = s.retryer.Run(ctx, func(ctx context.Context) error {
		return s.clt.EnsureBranch(ctx, fork, s.cfg.Branch, status.DefaultBranchHead)
	}, []zap.Field{logfields.Repository(fork.String()), logfields.Branch(s.cfg.Branch)})
	if err != nil {
		return fmt.Errorf("creating branch %s in fork %s failed: %w", s.cfg.Branch, fork, err)
	}

	changed, err := s.commitChanges(ctx, repo, fork, status.DefaultBranchHead, candidates, logger)
	if err != nil {
		return err
	}

	if changed == 0 {
		return ErrNothingChanged
	}

	if pr := status.OpenPullRequestFrom(fork.Owner); pr != nil {
		logger.Info(
			"existing pull request was updated",
			logfields.Event("pull_request_updated"),
			logfields.PullRequestURL(pr.URL),
			zap.Int("pull_request.changed_files", changed),
		)

		return nil
	}

	url, err := s.clt.CreatePullRequest(
		ctx,
		repo,
		fork.Owner+":"+s.cfg.Branch,
		status.DefaultBranch,
		s.cfg.Title,
		s.cfg.Body,
	)
	if err != nil {
		return fmt.Errorf("creating pull request failed: %w", err)
	}

	logger.Info(
		"pull request created",
		logfields.Event("pull_request_created"),
		logfields.PullRequestURL(url),
		logfields.BaseBranch(status.DefaultBranch),
		zap.Int("pull_request.changed_files", changed),
	)

	return nil
}

// waitForFork waits until the branch of a newly created fork can be read.
func (s *Submitter) waitForFork(ctx context.Context, fork ghrepo.Ref, branch string) error {
	return s.retryer.Run(ctx, func(ctx context.Context) error {
		_, err := s.clt.BranchHead(ctx, fork, branch)
		if errors.Is(err, githubclt.ErrNotFound) {
			return pinerr.NewRetryableAnytimeError(err)
		}

		return err
	}, []zap.Field{logfields.Repository(fork.String()), logfields.Branch(branch)})
}

// commitChanges rewrites the candidate files and commits each changed file
// to the branch in fork.
// It returns the number of changed files.
func (s *Submitter) commitChanges(
	ctx context.Context,
	repo, fork ghrepo.Ref,
	commit string,
	candidates []batch.Candidate,
	logger *zap.Logger,
) (int, error) {
	var changed int
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if _, exists := seen[c.Path]; exists {
			continue
		}
		seen[c.Path] = struct{}{}

		logger := logger.With(logfields.FilePath(c.Path))

		f, err := s.clt.File(ctx, repo, c.Path, commit)
		if err != nil {
			return changed, fmt.Errorf("reading %s failed: %w", c.Path, err)
		}

		newContent, err := s.rewriter.Rewrite(c.Path, f.Content)
		if err != nil {
			return changed, fmt.Errorf("rewriting %s failed: %w", c.Path, err)
		}

		if bytes.Equal(f.Content, newContent) {
			logger.Debug("file is unchanged", logfields.Event("pull_request_file_unchanged"))
			continue
		}

		commitSHA, err := s.clt.CommitFile(ctx, fork, s.cfg.Branch, c.Path, newContent, f.SHA, s.cfg.CommitMessage)
		if err != nil {
			return changed, fmt.Errorf("committing %s failed: %w", c.Path, err)
		}

		logger.Debug(
			"file change committed",
			logfields.Event("pull_request_file_committed"),
			logfields.Commit(commitSHA),
		)

		changed++
	}

	return changed, nil
}
