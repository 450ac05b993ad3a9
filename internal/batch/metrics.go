package batch

import (
	"gonum.org/v1/gonum/stat"

	"github.com/cardiosignal/ecg-metrics/pkg/logging"
)

// SummaryStats represents statistical measures over per-record estimates
type SummaryStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

// StatsCalculator computes summary statistics over batch results
type StatsCalculator struct {
	logger logging.Logger
}

// NewStatsCalculator creates a new statistics calculator
func NewStatsCalculator(logger logging.Logger) *StatsCalculator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &StatsCalculator{logger: logger}
}

// Calculate computes summary statistics over sorted values. Returns nil for
// an empty input.
func (sc *StatsCalculator) Calculate(sorted []float64) *SummaryStats {
	if len(sorted) == 0 {
		return nil
	}

	s := &SummaryStats{
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Count:  len(sorted),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}

	sc.logger.Debug("Summary statistics calculated", logging.Fields{
		"count":  s.Count,
		"mean":   s.Mean,
		"median": s.Median,
	})

	return s
}
