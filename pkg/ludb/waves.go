package ludb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cardiosignal/ecg-metrics/pkg/logging"
	"github.com/cardiosignal/ecg-metrics/pkg/wfdb"
)

// WaveKind identifies a delineated waveform
type WaveKind string

const (
	WaveP   WaveKind = "pwave"
	WaveQRS WaveKind = "qrs"
	WaveT   WaveKind = "twave"
)

// symbolToKind maps annotation peak symbols to wave kinds: 'p' and 't' mark P
// and T wave peaks, 'N' marks the QRS complex
var symbolToKind = map[string]WaveKind{
	"p": WaveP,
	"N": WaveQRS,
	"t": WaveT,
}

// Waveform is one delineated wave on a single lead. Onset, Peak and Offset
// are sample indices; DurationMS is the onset-to-offset span in milliseconds.
type Waveform struct {
	Kind       WaveKind `json:"kind"`
	Onset      int      `json:"onset"`
	Peak       int      `json:"peak"`
	Offset     int      `json:"offset"`
	DurationMS float64  `json:"duration_ms"`
}

// LoadWaves returns the ordered wave delineation of one lead of rec. LUDB
// stores per-lead annotations under the extension "atr_<lead>".
func (r *Reader) LoadWaves(rec, lead string) ([]Waveform, error) {
	name := strings.ToLower(strings.TrimSpace(lead))
	valid := false
	for _, l := range AllLeads {
		if l == name {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown lead %q", lead)
	}

	path := filepath.Join(r.dir, rec+".atr_"+name)
	anns, err := wfdb.ReadAnnotationFile(path)
	if err != nil {
		return nil, err
	}

	waves := pairWaves(anns, Fs)
	r.logger.Debug("Loaded wave delineation", logging.Fields{
		"record": rec,
		"lead":   name,
		"waves":  len(waves),
	})
	return waves, nil
}

// LoadAllWaves returns the delineation of every requested lead (all 12 when
// empty), keyed by lead name
func (r *Reader) LoadAllWaves(rec string, leads []string) (map[string][]Waveform, error) {
	if len(leads) == 0 {
		leads = AllLeads
	}
	out := make(map[string][]Waveform, len(leads))
	for _, lead := range leads {
		waves, err := r.LoadWaves(rec, lead)
		if err != nil {
			return nil, err
		}
		out[strings.ToLower(lead)] = waves
	}
	return out, nil
}

// pairWaves converts a raw annotation sequence into waveforms. Each peak
// symbol (p, N, t) takes the immediately preceding '(' as its onset and the
// immediately following ')' as its offset; when a boundary marker is absent,
// the peak sample stands in for it. Peaks at the ends of the sequence degrade
// the same way.
func pairWaves(anns []wfdb.Annotation, fs float64) []Waveform {
	spacing := 1000 / fs // ms per sample

	var waves []Waveform
	for i, ann := range anns {
		kind, ok := symbolToKind[ann.Symbol]
		if !ok {
			continue
		}

		onset, offset := ann.Sample, ann.Sample
		if i > 0 && anns[i-1].Symbol == "(" {
			onset = anns[i-1].Sample
		}
		if i < len(anns)-1 && anns[i+1].Symbol == ")" {
			offset = anns[i+1].Sample
		}

		waves = append(waves, Waveform{
			Kind:       kind,
			Onset:      onset,
			Peak:       ann.Sample,
			Offset:     offset,
			DurationMS: float64(offset-onset) * spacing,
		})
	}
	return waves
}
