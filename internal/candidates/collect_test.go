package candidates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/pinbump/internal/batch"
	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/githubclt"
)

type sliceIter struct {
	results []*githubclt.CodeSearchResult
	err     error
}

func (it *sliceIter) Next() (*githubclt.CodeSearchResult, error) {
	if len(it.results) == 0 {
		return nil, it.err
	}

	r := it.results[0]
	it.results = it.results[1:]

	return r, nil
}

func TestCollectGroupsByRepository(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	it := sliceIter{results: []*githubclt.CodeSearchResult{
		{Repository: "org/a", Path: "Dockerfile", SHA: "1"},
		{Repository: "org/b", Path: "Dockerfile", SHA: "2"},
		{Repository: "org/a", Path: "build/Dockerfile", SHA: "3"},
		{Repository: "bot/a", Fork: true, Path: "Dockerfile", SHA: "4"},
		{Repository: "org/a/b", Path: "Dockerfile", SHA: "5"},
		{Repository: "", Path: "Dockerfile", SHA: "6"},
	}}

	group, err := Collect(context.Background(), &it, nil)
	require.NoError(t, err)

	repoA := ghrepo.Ref{Owner: "org", Name: "a"}
	repoB := ghrepo.Ref{Owner: "org", Name: "b"}

	assert.Equal(t, batch.Group{
		repoA: {
			{Repository: repoA, Path: "Dockerfile", SHA: "1"},
			{Repository: repoA, Path: "build/Dockerfile", SHA: "3"},
		},
		repoB: {
			{Repository: repoB, Path: "Dockerfile", SHA: "2"},
		},
	}, group)
}

func TestCollectAppliesFilter(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	filter, err := NewFilter(`.path | endswith("Dockerfile")`)
	require.NoError(t, err)

	it := sliceIter{results: []*githubclt.CodeSearchResult{
		{Repository: "org/a", Path: "Dockerfile"},
		{Repository: "org/a", Path: "README.md"},
		{Repository: "org/b", Path: "docs/example.md"},
	}}

	group, err := Collect(context.Background(), &it, filter)
	require.NoError(t, err)

	require.Len(t, group, 1)
	assert.Len(t, group[ghrepo.Ref{Owner: "org", Name: "a"}], 1)
}

func TestCollectReturnsIteratorError(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	iterErr := errors.New("search failed")
	it := sliceIter{
		results: []*githubclt.CodeSearchResult{{Repository: "org/a", Path: "Dockerfile"}},
		err:     iterErr,
	}

	_, err := Collect(context.Background(), &it, nil)
	assert.ErrorIs(t, err, iterErr)
}

func TestCollectEmpty(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	group, err := Collect(context.Background(), &sliceIter{}, nil)
	require.NoError(t, err)
	assert.Empty(t, group)
}

func TestFilterRequiresBoolResult(t *testing.T) {
	hit := githubclt.CodeSearchResult{Repository: "org/a", Path: "Dockerfile"}

	tcs := []struct {
		query       string
		expected    bool
		expectedErr bool
	}{
		{query: `.repository == "org/a"`, expected: true},
		{query: `.fork`, expected: false},
		{query: `.repository | startswith("other/")`, expected: false},
		{query: `.path`, expectedErr: true},
		{query: `.repository, .path`, expectedErr: true},
		{query: `empty`, expectedErr: true},
		{query: `error("boom")`, expectedErr: true},
	}

	for _, tc := range tcs {
		t.Run(tc.query, func(t *testing.T) {
			f, err := NewFilter(tc.query)
			require.NoError(t, err)

			match, err := f.Match(context.Background(), &hit)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, match)
		})
	}
}

func TestNewFilterInvalidQuery(t *testing.T) {
	_, err := NewFilter(`.path |`)
	assert.Error(t, err)
}
