package batch

import (
	"fmt"

	"github.com/simplesurance/pinbump/internal/ghrepo"
)

type Status int

const (
	StatusSubmitted Status = iota
	StatusSkippedCovered
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusSkippedCovered:
		return "skipped_covered"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

const (
	reasonAppInstalled     = "automated update app is installed"
	reasonOptedIn          = "repository configuration enables automated updates"
	reasonCoverageFailed   = "checking for automated updates failed"
	reasonRateLimiterAbort = "waiting for rate limiter failed"
	reasonChangeFailed     = "submitting change failed"
	reasonPanic            = "processing panicked"
)

// Outcome is the result of processing one repository.
type Outcome struct {
	Repository ghrepo.Ref
	Status     Status
	// Reason describes why a repository was skipped or failed.
	Reason string
	Err    error
}
