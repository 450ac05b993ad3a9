package spectral

import (
	"fmt"

	dsp "github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
)

// PSDFunc estimates a one-sided power spectral density for every lead of a
// lead-first signal. Implementations must return a shared ascending frequency
// axis and one non-negative power slice per lead, all aligned to that axis.
type PSDFunc func(sig [][]float64, fs float64) (freqs []float64, power [][]float64, err error)

// WelchConfig controls the Welch PSD estimator
type WelchConfig struct {
	// SegmentLength is the per-segment FFT length in samples. It is clamped
	// down to the largest power of two not exceeding the signal length, so
	// short records still produce a valid (if coarse) spectrum.
	SegmentLength int
	// Overlap is the fraction of SegmentLength shared between consecutive
	// segments, in [0, 1).
	Overlap float64
}

// DefaultWelchConfig returns Welch settings with enough frequency resolution
// to resolve heart-rate fundamentals on typical 500 Hz clinical records
func DefaultWelchConfig() WelchConfig {
	return WelchConfig{
		SegmentLength: 4096,
		Overlap:       0.5,
	}
}

// WelchPSD returns a PSDFunc backed by go-dsp's Pwelch with a Hann window.
// Leads are processed independently against the same segmenting, so the
// frequency axis is shared across leads.
func WelchPSD(cfg WelchConfig) PSDFunc {
	return func(sig [][]float64, fs float64) ([]float64, [][]float64, error) {
		if len(sig) == 0 || len(sig[0]) == 0 {
			return nil, nil, fmt.Errorf("welch: empty signal")
		}
		if cfg.SegmentLength <= 0 {
			return nil, nil, fmt.Errorf("welch: segment length must be positive, got %d", cfg.SegmentLength)
		}
		if cfg.Overlap < 0 || cfg.Overlap >= 1 {
			return nil, nil, fmt.Errorf("welch: overlap must be in [0, 1), got %g", cfg.Overlap)
		}

		nfft := clampSegmentLength(cfg.SegmentLength, len(sig[0]))
		opts := &dsp.PwelchOptions{
			NFFT:     nfft,
			Pad:      nfft,
			Window:   window.Hann,
			Noverlap: int(float64(nfft) * cfg.Overlap),
		}

		var freqs []float64
		power := make([][]float64, len(sig))
		for i, lead := range sig {
			if len(lead) != len(sig[0]) {
				return nil, nil, fmt.Errorf("welch: lead %d has %d samples, want %d", i, len(lead), len(sig[0]))
			}
			pxx, f := dsp.Pwelch(lead, fs, opts)
			if freqs == nil {
				freqs = f
			} else if len(f) != len(freqs) {
				return nil, nil, fmt.Errorf("welch: lead %d produced %d bins, want %d", i, len(f), len(freqs))
			}
			power[i] = pxx
		}
		return freqs, power, nil
	}
}

// clampSegmentLength returns the largest power of two that is at most
// min(requested, signalLen)
func clampSegmentLength(requested, signalLen int) int {
	limit := min(requested, signalLen)
	n := 1
	for n*2 <= limit {
		n *= 2
	}
	return n
}
