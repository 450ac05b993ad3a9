package wfdb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = `10 12 500 5000
10.dat 16 24460(976)/mV 16 0 1198 29803 0 i
10.dat 16 24460(1289)/mV 16 0 -1564 1108 0 ii
10.dat 16 24460(313)/mV 16 0 -2762 4359 0 iii
10.dat 16 24460(-156)/mV 16 0 2545 -27409 0 avr
10.dat 16 24460(332)/mV 16 0 1980 13882 0 avl
10.dat 16 24460(801)/mV 16 0 -2163 -18043 0 avf
10.dat 16 24460(645)/mV 16 0 -553 21618 0 v1
10.dat 16 24460(723)/mV 16 0 -1461 1844 0 v2
10.dat 16 24460(996)/mV 16 0 -145 10170 0 v3
10.dat 16 24460(889)/mV 16 0 1425 25686 0 v4
10.dat 16 24460(2)/mV 16 0 2625 15242 0 v5
10.dat 16 24460(537)/mV 16 0 2520 13535 0 v6
# <age>: 55
# <sex>: M
# <diagnoses>
# Sinus rhythm.
# Left ventricular hypertrophy.
`

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(strings.NewReader(sampleHeader))
	require.NoError(t, err)

	assert.Equal(t, "10", h.Record)
	assert.Equal(t, 12, h.NumSignals)
	assert.Equal(t, 500.0, h.Fs)
	assert.Equal(t, 5000, h.NumSamples)
	require.Len(t, h.Signals, 12)

	first := h.Signals[0]
	assert.Equal(t, "10.dat", first.FileName)
	assert.Equal(t, 16, first.Format)
	assert.Equal(t, 24460.0, first.Gain)
	assert.Equal(t, 976, first.Baseline)
	assert.Equal(t, "mV", first.Units)
	assert.Equal(t, "i", first.Description)

	require.Len(t, h.Comments, 5)
	assert.Equal(t, "<age>: 55", h.Comments[0])
	assert.Equal(t, "Sinus rhythm.", h.Comments[3])
}

func TestParseHeaderDefaults(t *testing.T) {
	// Minimal record line: WFDB defaults apply.
	h, err := ParseHeader(strings.NewReader("rec 1\nrec.dat 16\n"))
	require.NoError(t, err)

	assert.Equal(t, 250.0, h.Fs)
	assert.Equal(t, 0, h.NumSamples)
	require.Len(t, h.Signals, 1)
	assert.Equal(t, defaultGain, h.Signals[0].Gain)
	assert.Equal(t, "mV", h.Signals[0].Units)
}

func TestParseHeaderBaselineFallsBackToADCZero(t *testing.T) {
	h, err := ParseHeader(strings.NewReader("rec 1 360 1000\nrec.dat 16 200/mV 12 1024 0 0 0 lead\n"))
	require.NoError(t, err)
	assert.Equal(t, 1024, h.Signals[0].Baseline)
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"bad signal count", "rec x\n"},
		{"bad fs", "rec 1 fast\nrec.dat 16\n"},
		{"missing signal lines", "rec 2 500 100\nrec.dat 16\n"},
		{"bad format", "rec 1 500 100\nrec.dat sixteen\n"},
		{"bad gain", "rec 1 500 100\nrec.dat 16 high/mV\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(strings.NewReader(tt.in))
			require.Error(t, err)
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, ErrCodeHeader, fe.Code)
		})
	}
}
