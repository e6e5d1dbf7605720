package pullrequest

import (
	"context"

	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/githubclt"
	"github.com/simplesurance/pinbump/internal/logfields"
)

// DryGithubClient is a github-client that does not do any changes on github.
// All operations that could cause a change are simulated and always succeed.
// All other operations are forwarded to a wrapped GithubClient.
// Forks are simulated by returning the forked repository itself.
type DryGithubClient struct {
	clt    GithubClient
	logger *zap.Logger
}

func NewDryGithubClient(clt GithubClient, logger *zap.Logger) *DryGithubClient {
	return &DryGithubClient{
		clt:    clt,
		logger: logger.Named("dry_github_client"),
	}
}

func (c *DryGithubClient) RepositoryStatus(ctx context.Context, repo ghrepo.Ref, headBranch string) (*githubclt.RepositoryStatus, error) {
	return c.clt.RepositoryStatus(ctx, repo, headBranch)
}

func (c *DryGithubClient) Fork(_ context.Context, repo ghrepo.Ref) (ghrepo.Ref, error) {
	c.logger.Info("simulated forking of repository, returning the repository as its own fork", repo.LogFields()...)
	return repo, nil
}

func (c *DryGithubClient) BranchHead(ctx context.Context, repo ghrepo.Ref, branch string) (string, error) {
	return c.clt.BranchHead(ctx, repo, branch)
}

func (c *DryGithubClient) File(ctx context.Context, repo ghrepo.Ref, path, ref string) (*githubclt.File, error) {
	return c.clt.File(ctx, repo, path, ref)
}

func (c *DryGithubClient) EnsureBranch(context.Context, ghrepo.Ref, string, string) error {
	c.logger.Info("simulated creating of branch, no branch created on github")
	return nil
}

func (c *DryGithubClient) CommitFile(_ context.Context, _ ghrepo.Ref, _, path string, _ []byte, _, _ string) (string, error) {
	c.logger.Info("simulated committing of file, no commit created on github", logfields.FilePath(path))
	return "", nil
}

func (c *DryGithubClient) CreatePullRequest(context.Context, ghrepo.Ref, string, string, string, string) (string, error) {
	c.logger.Info("simulated creating of pull request, no pull request created on github")
	return "", nil
}
