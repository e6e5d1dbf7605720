// Package batch processes groups of repositories: repositories that are
// already kept up to date by an automated update app are skipped, for all
// others a change is submitted.
// A failure while processing one repository does not affect the processing
// of the others.
package batch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/ghrepo"
	"github.com/simplesurance/pinbump/internal/logfields"
	"github.com/simplesurance/pinbump/internal/optin"
	"github.com/simplesurance/pinbump/internal/routines"
)

const loggerName = "batch"

const DefWorkers = 4

type Config struct {
	// CheckCoverage enables skipping repositories that are covered by an
	// automated update app.
	CheckCoverage bool
	Checker       CoverageChecker
	Probe         OptInProbe
	// ConfigPaths are the paths that are passed to Probe.
	ConfigPaths []string
	// ContentReader is passed to Probe.
	ContentReader optin.ContentReader
	// Limiter is waited for before each ChangeFunc invocation.
	// If it is nil, invocations are not limited.
	Limiter RateLimiter
	// Workers is the max. number of repositories that are processed
	// concurrently.
	Workers int
}

type Orchestrator struct {
	checkCoverage bool
	checker       CoverageChecker
	probe         OptInProbe
	configPaths   []string
	contentReader optin.ContentReader
	limiter       RateLimiter
	workers       int

	logger *zap.Logger
}

func New(cfg Config) *Orchestrator {
	o := Orchestrator{
		checkCoverage: cfg.CheckCoverage,
		checker:       cfg.Checker,
		probe:         cfg.Probe,
		configPaths:   cfg.ConfigPaths,
		contentReader: cfg.ContentReader,
		limiter:       cfg.Limiter,
		workers:       cfg.Workers,
		logger:        zap.L().Named(loggerName),
	}

	if o.workers < 1 {
		o.workers = DefWorkers
	}

	return &o
}

// Run processes all repositories of group and returns one Outcome per
// repository, ordered by the repository full name.
// changeFn is invoked for every repository that is not skipped.
func (o *Orchestrator) Run(ctx context.Context, group Group, changeFn ChangeFunc) []Outcome {
	startTime := time.Now()
	keys := group.SortedKeys()
	outcomes := make([]Outcome, len(keys))

	o.logger.Info(
		"processing repositories",
		logfields.Event("batch_started"),
		zap.Int("batch.repositories", len(keys)),
		zap.Int("batch.workers", o.workers),
		zap.Bool("batch.check_coverage", o.checkCoverage),
	)

	pool := routines.NewPool(o.workers)

	for i, repo := range keys {
		candidates := group[repo]

		pool.Queue(func() {
			outcomes[i] = o.process(ctx, repo, candidates, changeFn)
			metrics.OutcomeInc(outcomes[i].Status)
		})
	}

	pool.Wait()

	stats := newStats(startTime, outcomes)
	metrics.RunFinished(stats)

	o.logger.Info(
		"processing repositories finished",
		append(stats.LogFields(), logfields.Event("batch_finished"))...,
	)

	return outcomes
}

func (o *Orchestrator) process(ctx context.Context, repo ghrepo.Ref, candidates []Candidate, changeFn ChangeFunc) (result Outcome) {
	logger := o.logger.With(repo.LogFields()...)

	defer func() {
		if r := recover(); r != nil {
			logger.Error(
				"processing repository panicked",
				logfields.Event("batch_repository_panic"),
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)

			result = Outcome{
				Repository: repo,
				Status:     StatusFailed,
				Reason:     reasonPanic,
				Err:        fmt.Errorf("panic: %v", r),
			}
		}
	}()

	if o.checkCoverage {
		covered, reason, err := o.isCovered(ctx, repo)
		if err != nil {
			logger.Warn(
				"checking for automated updates failed, skipping repository",
				logfields.Event("batch_coverage_check_failed"),
				zap.Error(err),
			)

			return Outcome{Repository: repo, Status: StatusFailed, Reason: reasonCoverageFailed, Err: err}
		}

		if covered {
			logger.Info(
				"repository is covered by automated updates, skipping it",
				logfields.Event("batch_repository_skipped"),
				logfields.Reason(reason),
			)

			return Outcome{Repository: repo, Status: StatusSkippedCovered, Reason: reason}
		}
	}

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return Outcome{Repository: repo, Status: StatusFailed, Reason: reasonRateLimiterAbort, Err: err}
		}
	}

	if err := changeFn(ctx, repo, candidates); err != nil {
		logger.Warn(
			"submitting change failed",
			logfields.Event("batch_change_failed"),
			zap.Int("batch.candidates", len(candidates)),
			zap.Error(err),
		)

		return Outcome{Repository: repo, Status: StatusFailed, Reason: reasonChangeFailed, Err: err}
	}

	logger.Info(
		"change submitted",
		logfields.Event("batch_change_submitted"),
		zap.Int("batch.candidates", len(candidates)),
	)

	return Outcome{Repository: repo, Status: StatusSubmitted}
}

// isCovered returns true if the automated update app is installed for the
// repository or the repository enables automated updates via its
// configuration.
func (o *Orchestrator) isCovered(ctx context.Context, repo ghrepo.Ref) (bool, string, error) {
	if o.checker != nil {
		installed, err := o.checker.IsCoverageInstalled(ctx, repo)
		if err != nil {
			return false, "", err
		}

		if installed {
			return true, reasonAppInstalled, nil
		}
	}

	if o.probe != nil && o.contentReader != nil {
		if o.probe.IsOptedIn(ctx, o.configPaths, repo, o.contentReader) {
			return true, reasonOptedIn, nil
		}
	}

	return false, "", nil
}
