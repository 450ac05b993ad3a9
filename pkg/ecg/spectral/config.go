package spectral

// Config holds estimator settings. The band is always explicit here rather
// than read from ambient global state; callers that want a different default
// construct their own Config.
type Config struct {
	// HRBand is the default frequency band (Hz) searched for the heart-rate
	// fundamental when a call supplies no band of its own.
	HRBand [2]float64
	// NeighborhoodRadius is the number of bins kept on each side of the
	// per-lead spectral peak when computing the weighted centroid.
	NeighborhoodRadius int
	// Welch configures the default PSD estimator.
	Welch WelchConfig
}

// DefaultConfig returns estimator settings covering roughly 30-240 bpm
func DefaultConfig() Config {
	return Config{
		HRBand:             [2]float64{0.5, 4.0},
		NeighborhoodRadius: 1,
		Welch:              DefaultWelchConfig(),
	}
}
