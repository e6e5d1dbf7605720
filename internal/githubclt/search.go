package githubclt

import (
	"context"

	"github.com/google/go-github/v43/github"
)

const searchPageSize = 100

// CodeSearchResult is a file matching a code search query.
type CodeSearchResult struct {
	// Repository is the full name of the repository, owner/name.
	Repository string
	// Fork is true when the repository is a fork.
	Fork    bool
	Path    string
	SHA     string
	HTMLURL string
}

type CodeIterator interface {
	Next() (*CodeSearchResult, error)
}

type CodeIter struct {
	clt *Client

	ctx   context.Context
	query string

	unseen []*github.CodeResult

	nextPage int
	finished bool
}

// Next returns the next search result.
// When the last result was returned a nil result is returned.
func (it *CodeIter) Next() (*CodeSearchResult, error) {
	if len(it.unseen) > 0 {
		result := it.unseen[0]
		it.unseen = it.unseen[1:]

		return &CodeSearchResult{
			Repository: result.GetRepository().GetFullName(),
			Fork:       result.GetRepository().GetFork(),
			Path:       result.GetPath(),
			SHA:        result.GetSHA(),
			HTMLURL:    result.GetHTMLURL(),
		}, nil
	}

	if it.finished {
		return nil, nil
	}

	res, resp, err := it.clt.restClt.Search.Code(it.ctx, it.query, &github.SearchOptions{
		ListOptions: github.ListOptions{
			Page:    it.nextPage,
			PerPage: searchPageSize,
		},
	})
	if err != nil {
		return nil, it.clt.wrapRetryableErrors(err)
	}

	if resp.NextPage == 0 || len(res.CodeResults) == 0 {
		it.finished = true
	} else {
		it.nextPage = resp.NextPage
	}

	if res.GetIncompleteResults() {
		it.clt.logger.Warn("code search returned incomplete results")
	}

	it.unseen = res.CodeResults

	return it.Next()
}

// SearchCode returns an iterator over all results of the code search query.
func (clt *Client) SearchCode(ctx context.Context, query string) CodeIterator { // interface is returned to make the method mockable
	return &CodeIter{
		clt:      clt,
		ctx:      ctx,
		query:    query,
		nextPage: 1,
	}
}
