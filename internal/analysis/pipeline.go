package analysis

import (
	"github.com/rs/zerolog/log"

	"github.com/pable/go-nba-hotcold/internal/metrics"
	"github.com/pable/go-nba-hotcold/internal/model"
)

// Report bundles everything one classification run produces.
type Report struct {
	Subject  string
	Games    int
	Result   *Result
	Analysis Analysis
	Summary  string
}

// Assignments returns the per-game assignments, or nil for an empty run.
func (r *Report) Assignments() []Assignment {
	if r == nil || r.Result == nil {
		return nil
	}
	return r.Result.Assignments
}

// Order returns the labels in ascending impact order, or nil for an empty run.
func (r *Report) Order() []string {
	if r == nil || r.Result == nil {
		return nil
	}
	return r.Result.Order
}

// Run classifies records for subject with a fresh model. An empty record set
// is not an error: it yields a Report with zero games.
func Run(records []model.GameRecord, subject string, cfg Config) (*Report, error) {
	if len(records) == 0 {
		log.Info().Str("subject", subject).Msg("no data")
		metrics.RecordAnalysis(metrics.OutcomeEmpty, 0, nil)
		return &Report{
			Subject:  subject,
			Analysis: Analysis{},
			Summary:  FormatSummary(subject, nil, nil),
		}, nil
	}

	features, err := NewExtractor().Extract(records)
	if err != nil {
		metrics.RecordAnalysis(metrics.OutcomeError, len(records), nil)
		return nil, err
	}

	m := NewModel(cfg)
	res, err := m.FitPredict(features)
	if err != nil {
		metrics.RecordAnalysis(metrics.OutcomeError, len(records), nil)
		return nil, err
	}
	an, err := m.Analyze(res.Assignments)
	if err != nil {
		return nil, err
	}
	summary, err := m.Summarize(res.Assignments, subject)
	if err != nil {
		return nil, err
	}

	metrics.RecordAnalysis(metrics.OutcomeOK, len(records), res.Silhouette)
	return &Report{
		Subject:  subject,
		Games:    len(records),
		Result:   res,
		Analysis: an,
		Summary:  summary,
	}, nil
}
