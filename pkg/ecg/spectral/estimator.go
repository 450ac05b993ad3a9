package spectral

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/cardiosignal/ecg-metrics/pkg/logging"
)

// Feasibility bounds for the heart-rate fundamental: the frequency axis must
// reach down to 50 bpm and up to 100 bpm, otherwise the spectrum cannot
// distinguish bradycardia from tachycardia.
const (
	minResolvableFreq = 50.0 / 60.0  // Hz
	maxResolvableFreq = 100.0 / 60.0 // Hz
)

// Estimator computes mean heart rate (or mean RR interval) from a multi-lead
// ECG signal by locating the dominant spectral peak within a physiologically
// plausible band, per lead, and averaging across leads.
//
// An Estimator is pure and safe for concurrent use: every call allocates only
// local working slices and touches no shared state.
type Estimator struct {
	cfg    Config
	psd    PSDFunc
	logger logging.Logger
}

// Options are per-call estimation settings
type Options struct {
	// Band is an optional collection of band bounds in Hz. At least two are
	// required when set; only the minimum and maximum are effective. When nil,
	// the estimator's configured default band is used.
	Band []float64
	// Layout is the axis order of the signal.
	Layout Layout
	// Mode selects the output unit.
	Mode Mode
}

// NewEstimator creates an estimator using the given PSD function. A nil psd
// falls back to Welch's method with the configured settings.
func NewEstimator(cfg Config, psd PSDFunc, logger logging.Logger) *Estimator {
	if psd == nil {
		psd = WelchPSD(cfg.Welch)
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if cfg.NeighborhoodRadius <= 0 {
		cfg.NeighborhoodRadius = 1
	}
	return &Estimator{
		cfg: cfg,
		psd: psd,
		logger: logger.WithFields(logging.Fields{
			"component": "spectral_estimator",
		}),
	}
}

// Estimate computes the mean heart rate of sig in bpm, or the mean RR
// interval in ms, depending on opts.Mode. The signal is in millivolts and all
// leads must share the sample count and the sampling rate fs.
func (e *Estimator) Estimate(sig [][]float64, fs float64, opts Options) (float64, error) {
	if fs <= 0 {
		return 0, NewSpectralError(ErrCodeInvalidArgument, "sampling rate must be positive").
			withValue("%g", fs)
	}
	if len(sig) == 0 || len(sig[0]) == 0 {
		return 0, NewSpectralError(ErrCodeInvalidArgument, "empty signal")
	}
	for i, lead := range sig {
		if len(lead) != len(sig[0]) {
			return 0, NewSpectralError(ErrCodeInvalidArgument, "leads must share the sample count").
				withValue("row %d has %d samples", i, len(lead)).
				withConstraint("%d", len(sig[0]))
		}
	}

	low, high, err := e.resolveBand(opts.Band)
	if err != nil {
		return 0, err
	}

	s := sig
	if opts.Layout == LayoutLeadLast {
		s = transpose(sig)
	}

	e.logger.Debug("Estimating spectral heart rate", logging.Fields{
		"leads":     len(s),
		"samples":   len(s[0]),
		"fs":        fs,
		"band_low":  low,
		"band_high": high,
		"mode":      opts.Mode.String(),
	})

	freqs, power, err := e.psd(s, fs)
	if err != nil {
		return 0, fmt.Errorf("psd estimation: %w", err)
	}
	if len(power) != len(s) {
		return 0, fmt.Errorf("psd estimation: got %d power rows for %d leads", len(power), len(s))
	}
	for i, p := range power {
		if len(p) != len(freqs) {
			return 0, fmt.Errorf("psd estimation: lead %d has %d bins, axis has %d", i, len(p), len(freqs))
		}
	}

	if err := checkFeasibility(freqs); err != nil {
		return 0, err
	}

	// Restrict to the closed band of interest.
	lo, hi := bandIndices(freqs, low, high)
	if lo > hi {
		return 0, NewSpectralError(ErrCodeEmptyBand, "frequency band does not intersect the PSD axis").
			withValue("[%g, %g] Hz", low, high).
			withConstraint("axis spans [%g, %g] Hz", freqs[0], freqs[len(freqs)-1])
	}
	bandFreqs := freqs[lo : hi+1]

	centroids := make([]float64, len(s))
	for l, p := range power {
		bp := p[lo : hi+1]
		peak := floats.MaxIdx(bp)

		// Weighted centroid over the clipped neighborhood of the peak;
		// everything outside the window carries zero weight.
		start := max(0, peak-e.cfg.NeighborhoodRadius)
		end := min(len(bp)-1, peak+e.cfg.NeighborhoodRadius)
		var num, den float64
		for i := start; i <= end; i++ {
			num += bp[i] * bandFreqs[i]
			den += bp[i]
		}
		if den == 0 {
			return 0, NewSpectralError(ErrCodeDegenerateSpectrum, "masked power sums to zero").
				withValue("lead %d, peak bin %d", l, peak)
		}
		centroids[l] = num / den
	}

	meanFreq := floats.Sum(centroids) / float64(len(centroids))

	e.logger.Debug("Per-lead centroids computed", logging.Fields{
		"band_bins": len(bandFreqs),
		"mean_freq": meanFreq,
	})

	if meanFreq <= 0 || math.IsNaN(meanFreq) || math.IsInf(meanFreq, 0) {
		return 0, NewSpectralError(ErrCodeDegenerateSpectrum, "averaged fundamental frequency is not positive").
			withValue("%g Hz", meanFreq)
	}

	switch opts.Mode {
	case ModeRRInterval:
		return 1000 / meanFreq, nil
	default:
		return 60 * meanFreq, nil
	}
}

// resolveBand reduces the supplied bounds to (min, max), falling back to the
// configured default band
func (e *Estimator) resolveBand(band []float64) (float64, float64, error) {
	if band == nil {
		return e.cfg.HRBand[0], e.cfg.HRBand[1], nil
	}
	if len(band) < 2 {
		return 0, 0, NewSpectralError(ErrCodeInvalidArgument, "frequency band needs at least two bounds").
			withValue("%d bound(s)", len(band))
	}
	low, high := floats.Min(band), floats.Max(band)
	if low <= 0 {
		return 0, 0, NewSpectralError(ErrCodeInvalidArgument, "band bounds must be positive").
			withValue("%g Hz", low)
	}
	return low, high, nil
}

// checkFeasibility verifies that the PSD frequency axis has enough
// low-frequency resolution and enough range to resolve a heart-rate
// fundamental. Short high-rate recordings routinely fail this check.
func checkFeasibility(freqs []float64) error {
	pos := make([]float64, 0, len(freqs))
	for _, f := range freqs {
		if f > 0 {
			pos = append(pos, f)
		}
	}
	if len(pos) == 0 {
		return NewSpectralError(ErrCodeSpectralResolution, "frequency axis has no positive frequencies")
	}
	sort.Float64s(pos)
	if pos[0] > minResolvableFreq {
		return NewSpectralError(ErrCodeSpectralResolution, "frequency axis resolution too coarse for heart rate").
			withValue("lowest positive frequency %g Hz", pos[0]).
			withConstraint("<= %g Hz", minResolvableFreq)
	}
	if pos[len(pos)-1] < maxResolvableFreq {
		return NewSpectralError(ErrCodeSpectralResolution, "frequency axis range too narrow for heart rate").
			withValue("highest frequency %g Hz", pos[len(pos)-1]).
			withConstraint(">= %g Hz", maxResolvableFreq)
	}
	return nil
}

// bandIndices returns the inclusive index range of freqs falling inside
// [low, high]. freqs is ascending. Returns lo > hi when the band is empty.
func bandIndices(freqs []float64, low, high float64) (int, int) {
	lo := sort.SearchFloat64s(freqs, low)
	hi := sort.SearchFloat64s(freqs, high)
	if hi == len(freqs) || freqs[hi] > high {
		hi--
	}
	return lo, hi
}

func transpose(sig [][]float64) [][]float64 {
	out := make([][]float64, len(sig[0]))
	for i := range out {
		out[i] = make([]float64, len(sig))
		for j := range sig {
			out[i][j] = sig[j][i]
		}
	}
	return out
}
