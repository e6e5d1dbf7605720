// Package candidates groups code search results by repository.
package candidates

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/batch"
	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/githubclt"
	"github.com/simplesurance/pinbump/internal/logfields"
)

const loggerName = "candidates"

// Collect retrieves all results from it and groups them by repository.
// Results from forks, results with malformed repository names and results
// that do not match filter are skipped.
// filter can be nil.
func Collect(ctx context.Context, it githubclt.CodeIterator, filter *Filter) (batch.Group, error) {
	logger := zap.L().Named(loggerName)
	result := batch.Group{}

	var seen, skipped int

	for {
		hit, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("retrieving search results failed: %w", err)
		}

		if hit == nil {
			break
		}

		seen++

		hitLogger := logger.With(
			logfields.Repository(hit.Repository),
			logfields.FilePath(hit.Path),
		)

		if hit.Fork {
			hitLogger.Debug("skipping search result from fork", logfields.Event("candidate_skipped_fork"))
			skipped++
			continue
		}

		repo, err := ghrepo.ParseRef(hit.Repository)
		if err != nil {
			hitLogger.Warn(
				"skipping search result with invalid repository name",
				logfields.Event("candidate_skipped_invalid_repository"),
				zap.Error(err),
			)
			skipped++
			continue
		}

		if filter != nil {
			match, err := filter.Match(ctx, hit)
			if err != nil {
				return nil, fmt.Errorf("evaluating filter query for %s in %s failed: %w", hit.Path, hit.Repository, err)
			}

			if !match {
				hitLogger.Debug("search result does not match filter query", logfields.Event("candidate_filtered"))
				skipped++
				continue
			}
		}

		result[repo] = append(result[repo], batch.Candidate{
			Repository: repo,
			Path:       hit.Path,
			SHA:        hit.SHA,
			HTMLURL:    hit.HTMLURL,
		})
	}

	logger.Info(
		"collected candidates",
		logfields.Event("candidates_collected"),
		zap.Int("candidates.search_results", seen),
		zap.Int("candidates.skipped", skipped),
		zap.Int("candidates.repositories", len(result)),
	)

	return result, nil
}
