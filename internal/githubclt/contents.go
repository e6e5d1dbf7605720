package githubclt

import (
	"context"
	"fmt"

	"github.com/google/go-github/v43/github"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/optin"
)

// File is a file in a git repository.
type File struct {
	Content []byte
	// SHA is the git blob SHA of the file.
	SHA string
}

// File returns the file at path in the branch or commit ref.
// If ref is empty, the file from the default branch is returned.
// If the file does not exist an error wrapping ErrNotFound and
// optin.ErrFileNotFound is returned.
func (clt *Client) File(ctx context.Context, repo ghrepo.Ref, path, ref string) (*File, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	fileContent, dirContent, _, err := clt.restClt.Repositories.GetContents(ctx, repo.Owner, repo.Name, path, opts)
	if err != nil {
		if isNotFoundErr(err) {
			return nil, fmt.Errorf("%s in %s: %w (%w)", path, repo, ErrNotFound, optin.ErrFileNotFound)
		}

		return nil, clt.wrapRetryableErrors(err)
	}

	if fileContent == nil {
		return nil, fmt.Errorf("%s in %s is a directory with %d entries, expected a file", path, repo, len(dirContent))
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding content of %s failed: %w", path, err)
	}

	return &File{Content: []byte(content), SHA: fileContent.GetSHA()}, nil
}

// FileContent returns the content of the file at path in the default
// branch of the repository.
func (clt *Client) FileContent(ctx context.Context, repo ghrepo.Ref, path string) ([]byte, error) {
	f, err := clt.File(ctx, repo, path, "")
	if err != nil {
		return nil, err
	}

	return f.Content, nil
}
