package batch

import (
	"context"
	"sort"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/optin"
)

//go:generate mockgen -destination=mocks/batch.go -package=mocks . CoverageChecker,OptInProbe,RateLimiter

// Candidate is a file in a repository that references the outdated value.
type Candidate struct {
	Repository ghrepo.Ref
	Path       string
	SHA        string
	HTMLURL    string
}

// Group maps the parent repository to the candidates found in it.
type Group map[ghrepo.Ref][]Candidate

// SortedKeys returns the repositories of the group, ordered by their full
// name.
func (g Group) SortedKeys() []ghrepo.Ref {
	result := make([]ghrepo.Ref, 0, len(g))
	for k := range g {
		result = append(result, k)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].String() < result[j].String()
	})

	return result
}

// ChangeFunc submits the change for a single repository.
type ChangeFunc func(ctx context.Context, repo ghrepo.Ref, candidates []Candidate) error

// CoverageChecker checks if an automated update app is installed for a
// repository.
type CoverageChecker interface {
	IsCoverageInstalled(ctx context.Context, repo ghrepo.Ref) (bool, error)
}

// OptInProbe checks if a repository enables automated updates via its
// configuration files.
type OptInProbe interface {
	IsOptedIn(ctx context.Context, candidatePaths []string, repo ghrepo.Ref, reader optin.ContentReader) bool
}

// RateLimiter limits the rate of ChangeFunc invocations.
type RateLimiter interface {
	Wait(ctx context.Context) error
}
