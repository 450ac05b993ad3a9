package ludb

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardiosignal/ecg-metrics/pkg/ecg/spectral"
)

// writeTestRecord lays down a two-lead record "7" with a header in the LUDB
// style (gain 1000, so one ADC unit is one physical microvolt after the known
// gain issue) and a format-16 data file.
func writeTestRecord(t *testing.T, dir string) {
	t.Helper()

	hea := `7 2 500 4
7.dat 16 1000(0)/mV 16 0 0 0 0 i
7.dat 16 1000(0)/mV 16 0 0 0 0 ii
# <age>: 62
# <sex>: F
# <diagnoses>
# Sinus rhythm.
# Incomplete right bundle branch block.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.hea"), []byte(hea), 0o644))

	// Interleaved frames: lead i = {1000, 2000, 3000, 4000} ADC units,
	// lead ii = negated.
	var raw []byte
	for i := int16(1); i <= 4; i++ {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(i*1000))
		raw = binary.LittleEndian.AppendUint16(raw, uint16(-i*1000))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.dat"), raw, 0o644))
}

// annBytes encodes MIT annotation words for a test .atr_ file
func annBytes(events []struct {
	code  int
	delta int
}) []byte {
	var out []byte
	for _, e := range events {
		w := e.code<<10 | e.delta&0x3ff
		out = append(out, byte(w), byte(w>>8))
	}
	out = append(out, 0, 0)
	return out
}

func TestLoadDataMillivolts(t *testing.T) {
	dir := t.TempDir()
	writeTestRecord(t, dir)
	r := NewReader(dir, nil)

	sig, err := r.LoadData("7", []string{"i", "ii"}, spectral.LayoutLeadFirst, UnitsMV)
	require.NoError(t, err)
	require.Len(t, sig, 2)

	// ADC 1000 at gain 1000 is 1 physical unit; divided by 1000 for the
	// LUDB gain correction that is 0.001 mV.
	assert.InDeltaSlice(t, []float64{0.001, 0.002, 0.003, 0.004}, sig[0], 1e-9)
	assert.InDeltaSlice(t, []float64{-0.001, -0.002, -0.003, -0.004}, sig[1], 1e-9)
}

func TestLoadDataMicrovoltsAndLayout(t *testing.T) {
	dir := t.TempDir()
	writeTestRecord(t, dir)
	r := NewReader(dir, nil)

	mv, err := r.LoadData("7", nil, spectral.LayoutLeadFirst, UnitsMV)
	require.NoError(t, err)
	uv, err := r.LoadData("7", nil, spectral.LayoutLeadFirst, UnitsUV)
	require.NoError(t, err)
	for l := range mv {
		for i := range mv[l] {
			assert.InDelta(t, mv[l][i]*1000, uv[l][i], 1e-9)
		}
	}

	last, err := r.LoadData("7", nil, spectral.LayoutLeadLast, UnitsMV)
	require.NoError(t, err)
	require.Len(t, last, 4, "samples x leads")
	require.Len(t, last[0], 2)
	assert.Equal(t, mv[0][2], last[2][0])
	assert.Equal(t, mv[1][3], last[3][1])
}

func TestLoadDataEmptyLeadsMeansAll(t *testing.T) {
	dir := t.TempDir()
	writeTestRecord(t, dir)
	r := NewReader(dir, nil)

	// A decoded configuration hands over an empty non-nil slice; it must
	// select every lead just like nil does.
	fromNil, err := r.LoadData("7", nil, spectral.LayoutLeadFirst, UnitsMV)
	require.NoError(t, err)
	fromEmpty, err := r.LoadData("7", []string{}, spectral.LayoutLeadFirst, UnitsMV)
	require.NoError(t, err)

	require.Len(t, fromEmpty, 2)
	assert.Equal(t, fromNil, fromEmpty)
}

func TestLoadDataLeadSelection(t *testing.T) {
	dir := t.TempDir()
	writeTestRecord(t, dir)
	r := NewReader(dir, nil)

	sig, err := r.LoadData("7", []string{"II"}, spectral.LayoutLeadFirst, UnitsMV)
	require.NoError(t, err)
	require.Len(t, sig, 1)
	assert.Negative(t, sig[0][0])

	_, err = r.LoadData("7", []string{"v9"}, spectral.LayoutLeadFirst, UnitsMV)
	assert.Error(t, err)
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()
	writeTestRecord(t, dir)
	r := NewReader(dir, nil)

	md, err := r.LoadMetadata("7")
	require.NoError(t, err)
	assert.Equal(t, 62, md.Age)
	assert.Equal(t, "F", md.Sex)
	assert.Equal(t, []string{"Sinus rhythm.", "Incomplete right bundle branch block."}, md.Diagnoses)
}

func TestLoadWavesFromFile(t *testing.T) {
	dir := t.TempDir()
	writeTestRecord(t, dir)

	raw := annBytes([]struct {
		code  int
		delta int
	}{
		{39, 100}, // '(' at 100
		{24, 20},  // 'p' at 120
		{40, 20},  // ')' at 140
		{39, 40},  // '(' at 180
		{1, 20},   // 'N' at 200
		{40, 30},  // ')' at 230
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.atr_i"), raw, 0o644))

	r := NewReader(dir, nil)
	waves, err := r.LoadWaves("7", "i")
	require.NoError(t, err)
	require.Len(t, waves, 2)

	assert.Equal(t, WaveP, waves[0].Kind)
	assert.Equal(t, 100, waves[0].Onset)
	assert.Equal(t, 140, waves[0].Offset)
	assert.InDelta(t, 80, waves[0].DurationMS, 1e-12)

	assert.Equal(t, WaveQRS, waves[1].Kind)
	assert.Equal(t, 200, waves[1].Peak)
}

func TestLoadAllWavesEmptyLeadsMeansAll(t *testing.T) {
	dir := t.TempDir()
	writeTestRecord(t, dir)

	raw := annBytes([]struct {
		code  int
		delta int
	}{
		{39, 100}, {24, 20}, {40, 20},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.atr_i"), raw, 0o644))

	// An empty non-nil selection must fan out to all 12 leads, not quietly
	// produce an empty map; with only lead i annotated the load fails on
	// the first missing annotation file.
	r := NewReader(dir, nil)
	waves, err := r.LoadAllWaves("7", []string{})
	require.Error(t, err)
	assert.Nil(t, waves)
}

func TestLoadWavesUnknownLead(t *testing.T) {
	r := NewReader(t.TempDir(), nil)
	_, err := r.LoadWaves("7", "v9")
	assert.Error(t, err)
}

func TestParseUnits(t *testing.T) {
	for _, s := range []string{"mV", "MV", "mv", ""} {
		u, err := ParseUnits(s)
		require.NoError(t, err)
		assert.Equal(t, UnitsMV, u)
	}
	for _, s := range []string{"uV", "μV", "µv"} {
		u, err := ParseUnits(s)
		require.NoError(t, err)
		assert.Equal(t, UnitsUV, u)
	}
	_, err := ParseUnits("volts")
	assert.Error(t, err)
}
