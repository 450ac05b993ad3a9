// Package ludb reads the Lobachevsky University Electrocardiography Database:
// 200 ten-second conventional 12-lead ECG records sampled at 500 Hz, with
// cardiologist-annotated boundaries of P waves, QRS complexes and T waves on
// every lead.
package ludb

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cardiosignal/ecg-metrics/pkg/ecg/spectral"
	"github.com/cardiosignal/ecg-metrics/pkg/logging"
	"github.com/cardiosignal/ecg-metrics/pkg/wfdb"
)

// Fs is the sampling frequency of every LUDB record, in Hz
const Fs = 500.0

// AllLeads lists the 12 conventional leads in database order
var AllLeads = []string{"i", "ii", "iii", "avr", "avl", "avf", "v1", "v2", "v3", "v4", "v5", "v6"}

// Units of the loaded signal
type Units int

const (
	// UnitsMV is millivolts, the default
	UnitsMV Units = iota
	// UnitsUV is microvolts
	UnitsUV
)

// ParseUnits resolves a units string, case-insensitively
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mv", "":
		return UnitsMV, nil
	case "uv", "μv", "µv":
		return UnitsUV, nil
	}
	return 0, fmt.Errorf("unrecognized units %q, want mV or uV", s)
}

// Metadata holds the patient information recorded in a record's header
type Metadata struct {
	Age       int      `json:"age"` // -1 when not recorded
	Sex       string   `json:"sex"`
	Diagnoses []string `json:"diagnoses"`
}

// Reader loads signals, wave delineations and metadata from a LUDB directory.
// A Reader holds no open files and is safe for concurrent use.
type Reader struct {
	dir    string
	logger logging.Logger
}

// NewReader creates a reader over the database directory
func NewReader(dir string, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Reader{
		dir: dir,
		logger: logger.WithFields(logging.Fields{
			"component": "ludb_reader",
			"db_dir":    dir,
		}),
	}
}

// Records lists the record names of the database
func (r *Reader) Records() ([]string, error) {
	return wfdb.ListRecords(r.dir)
}

// LoadData loads the physical signal of rec for the given leads (all 12 when
// empty), in the requested layout and units. LUDB headers store an ADC gain a
// factor of 1000 too small, so the straight physical conversion lands in
// microvolts; millivolt output divides that back out.
func (r *Reader) LoadData(rec string, leads []string, layout spectral.Layout, units Units) ([][]float64, error) {
	h, err := wfdb.ReadHeader(filepath.Join(r.dir, rec+".hea"))
	if err != nil {
		return nil, err
	}

	raw, err := wfdb.ReadSignals(r.dir, h)
	if err != nil {
		return nil, err
	}

	idx, err := leadIndices(h, leads)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec, err)
	}

	out := make([][]float64, len(idx))
	for i, li := range idx {
		lead := raw[li]
		scaled := make([]float64, len(lead))
		for j, v := range lead {
			if units == UnitsMV {
				scaled[j] = v / 1000
			} else {
				scaled[j] = v
			}
		}
		out[i] = scaled
	}

	r.logger.Debug("Loaded record data", logging.Fields{
		"record":  rec,
		"leads":   len(out),
		"samples": len(out[0]),
		"layout":  layout.String(),
	})

	if layout == spectral.LayoutLeadLast {
		return transpose(out), nil
	}
	return out, nil
}

// LoadMetadata parses age, sex and diagnoses from the record's header comments
func (r *Reader) LoadMetadata(rec string) (*Metadata, error) {
	h, err := wfdb.ReadHeader(filepath.Join(r.dir, rec+".hea"))
	if err != nil {
		return nil, err
	}

	md := &Metadata{Age: -1}
	inDiagnoses := false
	for _, c := range h.Comments {
		switch {
		case strings.Contains(c, "<age>"):
			if v, err := strconv.Atoi(lastField(c)); err == nil {
				md.Age = v
			}
		case strings.Contains(c, "<sex>"):
			md.Sex = lastField(c)
		case strings.Contains(c, "<diagnoses>"):
			inDiagnoses = true
		case inDiagnoses:
			md.Diagnoses = append(md.Diagnoses, c)
		}
	}
	return md, nil
}

// leadIndices maps requested lead names to signal indices using the header
// descriptions. An empty selection means every lead the header declares, in
// database order.
func leadIndices(h *wfdb.Header, leads []string) ([]int, error) {
	if len(leads) == 0 {
		idx := make([]int, len(h.Signals))
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	}

	byName := make(map[string]int, len(h.Signals))
	for i, s := range h.Signals {
		byName[strings.ToLower(s.Description)] = i
	}

	idx := make([]int, 0, len(leads))
	for _, l := range leads {
		name := strings.ToLower(strings.TrimSpace(l))
		i, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("lead %q not present", l)
		}
		idx = append(idx, i)
	}
	return idx, nil
}

func lastField(s string) string {
	parts := strings.Split(s, ":")
	return strings.TrimSpace(parts[len(parts)-1])
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
