package batch

import (
	"time"

	"go.uber.org/zap"
)

// Stats summarizes the outcomes of a run.
type Stats struct {
	StartTime      time.Time
	EndTime        time.Time
	Submitted      uint
	SkippedCovered uint
	Failed         uint
}

func newStats(start time.Time, outcomes []Outcome) *Stats {
	s := Stats{StartTime: start, EndTime: time.Now()}

	for i := range outcomes {
		switch outcomes[i].Status {
		case StatusSubmitted:
			s.Submitted++
		case StatusSkippedCovered:
			s.SkippedCovered++
		case StatusFailed:
			s.Failed++
		}
	}

	return &s
}

func (s *Stats) LogFields() []zap.Field {
	return []zap.Field{
		zap.Duration("batch.duration", s.EndTime.Sub(s.StartTime)),
		zap.Uint("batch.repositories", s.Submitted+s.SkippedCovered+s.Failed),
		zap.Uint("batch.submitted", s.Submitted),
		zap.Uint("batch.skipped_covered", s.SkippedCovered),
		zap.Uint("batch.failed", s.Failed),
	}
}
