package batch

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardiosignal/ecg-metrics/pkg/ecg/spectral"
	"github.com/cardiosignal/ecg-metrics/pkg/ludb"
)

// writeSineRecord lays down a two-lead record with both leads a pure sine of
// freqHz, so the spectral estimate is known in advance
func writeSineRecord(t *testing.T, dir, rec string, freqHz float64, samples int) {
	t.Helper()

	hea := fmt.Sprintf("%s 2 500 %d\n%s.dat 16 1000(0)/mV 16 0 0 0 0 i\n%s.dat 16 1000(0)/mV 16 0 0 0 0 ii\n",
		rec, samples, rec, rec)
	require.NoError(t, os.WriteFile(filepath.Join(dir, rec+".hea"), []byte(hea), 0o644))

	var raw []byte
	for i := 0; i < samples; i++ {
		adc := int16(10000 * math.Sin(2*math.Pi*freqHz*float64(i)/500))
		raw = binary.LittleEndian.AppendUint16(raw, uint16(adc))
		raw = binary.LittleEndian.AppendUint16(raw, uint16(adc))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, rec+".dat"), raw, 0o644))
}

func newTestProcessor(t *testing.T, dir string, cfg Config) *Processor {
	t.Helper()
	reader := ludb.NewReader(dir, nil)
	estimator := spectral.NewEstimator(spectral.DefaultConfig(), nil, nil)
	return NewProcessor(reader, estimator, cfg, nil)
}

func TestRunMixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	writeSineRecord(t, dir, "1", 1.2, 5000)
	writeSineRecord(t, dir, "2", 1.0, 5000)
	// Too short to resolve heart rate in the frequency domain: an expected
	// failure, not an abort.
	writeSineRecord(t, dir, "3", 1.2, 300)

	p := newTestProcessor(t, dir, Config{
		Mode:            spectral.ModeHeartRate,
		MaxConcurrency:  2,
		ContinueOnError: true,
	})

	summary, err := p.Run(context.Background(), []string{"1", "2", "3"})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.FailuresByCode[spectral.ErrCodeSpectralResolution])

	require.NotNil(t, summary.Stats)
	assert.Equal(t, 2, summary.Stats.Count)
	assert.InDelta(t, 66, summary.Stats.Mean, 3, "mean of ~72 and ~60 bpm")

	// Results stay in input order.
	assert.Equal(t, "1", summary.Results[0].Record)
	assert.InDelta(t, 72, summary.Results[0].Value, 2)
	assert.Equal(t, "3", summary.Results[2].Record)
	assert.Equal(t, spectral.ErrCodeSpectralResolution, summary.Results[2].ErrorCode)
}

func TestRunAbortsWithoutContinueOnError(t *testing.T) {
	dir := t.TempDir()
	writeSineRecord(t, dir, "1", 1.2, 5000)
	writeSineRecord(t, dir, "2", 1.2, 300)

	p := newTestProcessor(t, dir, Config{
		Mode:            spectral.ModeHeartRate,
		MaxConcurrency:  1,
		ContinueOnError: false,
	})

	summary, err := p.Run(context.Background(), []string{"1", "2"})
	require.Error(t, err)
	assert.Equal(t, spectral.ErrCodeSpectralResolution, spectral.CodeOf(err))
	assert.Nil(t, summary, "no partial results on abort")
}

func TestRunHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	writeSineRecord(t, dir, "1", 1.2, 5000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestProcessor(t, dir, Config{Mode: spectral.ModeHeartRate, MaxConcurrency: 1})
	_, err := p.Run(ctx, []string{"1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRRIntervalMode(t *testing.T) {
	dir := t.TempDir()
	writeSineRecord(t, dir, "1", 1.2, 5000)

	p := newTestProcessor(t, dir, Config{
		Mode:            spectral.ModeRRInterval,
		MaxConcurrency:  1,
		ContinueOnError: true,
	})

	summary, err := p.Run(context.Background(), []string{"1"})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded)
	assert.InDelta(t, 60000.0/72.0, summary.Results[0].Value, 20)
}

func TestStatsCalculator(t *testing.T) {
	sc := NewStatsCalculator(nil)

	assert.Nil(t, sc.Calculate(nil))

	s := sc.Calculate([]float64{60, 70, 80, 90})
	require.NotNil(t, s)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 75, s.Mean, 1e-12)
	assert.Equal(t, 60.0, s.Min)
	assert.Equal(t, 90.0, s.Max)
	assert.InDelta(t, 70, s.Median, 10.0+1e-9)
	assert.Greater(t, s.StdDev, 0.0)
}
