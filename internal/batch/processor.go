// Package batch runs the spectral estimator over many database records
// concurrently. Estimation is pure and allocates only per-call state, so the
// natural parallelization unit is one record per worker with no shared
// resources to coordinate.
package batch

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cardiosignal/ecg-metrics/pkg/ecg/spectral"
	"github.com/cardiosignal/ecg-metrics/pkg/logging"
	"github.com/cardiosignal/ecg-metrics/pkg/ludb"
)

// Config contains batch execution settings
type Config struct {
	Leads           []string
	Units           ludb.Units
	Mode            spectral.Mode
	Band            []float64
	MaxConcurrency  int
	ContinueOnError bool
}

// RecordResult is the outcome of one record
type RecordResult struct {
	Record    string  `json:"record"`
	Value     float64 `json:"value,omitempty"`
	Error     string  `json:"error,omitempty"`
	ErrorCode string  `json:"error_code,omitempty"`
}

// Summary aggregates a whole batch run
type Summary struct {
	Mode           string         `json:"mode"`
	Records        int            `json:"records"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	FailuresByCode map[string]int `json:"failures_by_code,omitempty"`
	Stats          *SummaryStats  `json:"stats,omitempty"`
	Results        []RecordResult `json:"results"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
}

// Processor coordinates concurrent estimation over database records
type Processor struct {
	reader    *ludb.Reader
	estimator *spectral.Estimator
	cfg       Config
	stats     *StatsCalculator
	logger    logging.Logger
}

// NewProcessor creates a batch processor
func NewProcessor(reader *ludb.Reader, estimator *spectral.Estimator, cfg Config, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	return &Processor{
		reader:    reader,
		estimator: estimator,
		cfg:       cfg,
		stats:     NewStatsCalculator(logger),
		logger: logger.WithFields(logging.Fields{
			"component": "batch_processor",
		}),
	}
}

// Run estimates every record and aggregates the outcomes. Estimation
// failures with a typed code (infeasible spectra in particular) are expected
// outcomes on short or degenerate records: with ContinueOnError set they are
// tallied per code instead of aborting the batch.
func (p *Processor) Run(ctx context.Context, records []string) (*Summary, error) {
	start := time.Now()

	p.logger.Info("Starting batch estimation", logging.Fields{
		"records":         len(records),
		"max_concurrency": p.cfg.MaxConcurrency,
		"mode":            p.cfg.Mode.String(),
	})

	results := make([]RecordResult, len(records))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxConcurrency)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			value, err := p.processRecord(rec)
			res := RecordResult{Record: rec, Value: value}
			if err != nil {
				// Results are discarded when the run aborts, so the
				// failure only needs recording when we continue.
				if !p.cfg.ContinueOnError {
					return err
				}
				res.Value = 0
				res.Error = err.Error()
				res.ErrorCode = spectral.CodeOf(err)
			}

			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := p.summarize(results, time.Since(start))

	p.logger.Info("Batch estimation completed", logging.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"elapsed_s": summary.ElapsedSeconds,
	})

	return summary, nil
}

func (p *Processor) processRecord(rec string) (float64, error) {
	sig, err := p.reader.LoadData(rec, p.cfg.Leads, spectral.LayoutLeadFirst, p.cfg.Units)
	if err != nil {
		return 0, err
	}
	return p.estimator.Estimate(sig, ludb.Fs, spectral.Options{
		Band: p.cfg.Band,
		Mode: p.cfg.Mode,
	})
}

func (p *Processor) summarize(results []RecordResult, elapsed time.Duration) *Summary {
	summary := &Summary{
		Mode:           p.cfg.Mode.String(),
		Records:        len(results),
		Results:        results,
		ElapsedSeconds: elapsed.Seconds(),
	}

	var values []float64
	for _, res := range results {
		if res.Error != "" {
			summary.Failed++
			code := res.ErrorCode
			if code == "" {
				code = "OTHER"
			}
			if summary.FailuresByCode == nil {
				summary.FailuresByCode = make(map[string]int)
			}
			summary.FailuresByCode[code]++
			continue
		}
		summary.Succeeded++
		values = append(values, res.Value)
	}

	sort.Float64s(values)
	summary.Stats = p.stats.Calculate(values)
	return summary
}
