package wfdb

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// defaultGain is the WFDB gain assumed when a header specifies none
const defaultGain = 200.0

// SignalSpec describes one signal line of a WFDB header
type SignalSpec struct {
	FileName    string  `json:"file_name"`
	Format      int     `json:"format"`
	Gain        float64 `json:"gain"`     // ADC units per physical unit
	Baseline    int     `json:"baseline"` // ADC value corresponding to 0 physical units
	Units       string  `json:"units"`
	ADCRes      int     `json:"adc_res"`
	ADCZero     int     `json:"adc_zero"`
	InitValue   int     `json:"init_value"`
	Checksum    int     `json:"checksum"`
	BlockSize   int     `json:"block_size"`
	Description string  `json:"description"`
}

// Header holds the parsed contents of a WFDB .hea file
type Header struct {
	Record     string       `json:"record"`
	NumSignals int          `json:"num_signals"`
	Fs         float64      `json:"fs"`
	NumSamples int          `json:"num_samples"`
	Signals    []SignalSpec `json:"signals"`
	Comments   []string     `json:"comments"`
}

// ReadHeader parses the header file at path
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Code: ErrCodeHeader, File: path, Message: "open header", Cause: err}
	}
	defer f.Close()

	h, err := ParseHeader(f)
	if err != nil {
		if fe, ok := err.(*FormatError); ok {
			fe.File = path
		}
		return nil, err
	}
	return h, nil
}

// ParseHeader parses WFDB header text. The first non-comment line is the
// record line; the following NumSignals lines are signal specifications;
// '#' lines anywhere are collected as comments with the marker stripped.
func ParseHeader(r io.Reader) (*Header, error) {
	scanner := bufio.NewScanner(r)
	h := &Header{}
	signalsSeen := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}
		if h.Record == "" {
			if err := parseRecordLine(line, h); err != nil {
				return nil, err
			}
			continue
		}
		if signalsSeen < h.NumSignals {
			spec, err := parseSignalLine(line)
			if err != nil {
				return nil, err
			}
			h.Signals = append(h.Signals, spec)
			signalsSeen++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Code: ErrCodeHeader, Message: "read header", Cause: err}
	}
	if h.Record == "" {
		return nil, NewFormatError(ErrCodeHeader, "", "missing record line")
	}
	if signalsSeen < h.NumSignals {
		return nil, NewFormatError(ErrCodeHeader, "", "header declares %d signals, found %d", h.NumSignals, signalsSeen)
	}
	return h, nil
}

// parseRecordLine parses "name[/nseg] nsig [fs [counter] [nsamples ...]]"
func parseRecordLine(line string, h *Header) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return NewFormatError(ErrCodeHeader, "", "malformed record line %q", line)
	}
	h.Record = strings.SplitN(fields[0], "/", 2)[0]

	nsig, err := strconv.Atoi(fields[1])
	if err != nil || nsig < 0 {
		return NewFormatError(ErrCodeHeader, "", "bad signal count %q", fields[1])
	}
	h.NumSignals = nsig

	h.Fs = 250 // WFDB default
	if len(fields) >= 3 {
		// The fs field may carry counter frequency and base counter value
		// after '/' and in '(...)'; only the leading number is the rate.
		fsField := fields[2]
		if i := strings.IndexAny(fsField, "/("); i >= 0 {
			fsField = fsField[:i]
		}
		fs, err := strconv.ParseFloat(fsField, 64)
		if err != nil || fs <= 0 {
			return NewFormatError(ErrCodeHeader, "", "bad sampling frequency %q", fields[2])
		}
		h.Fs = fs
	}
	if len(fields) >= 4 {
		n, err := strconv.Atoi(fields[3])
		if err != nil || n < 0 {
			return NewFormatError(ErrCodeHeader, "", "bad sample count %q", fields[3])
		}
		h.NumSamples = n
	}
	return nil
}

// parseSignalLine parses "file fmt gain(baseline)/units adcres adczero initval cksum bsize desc"
func parseSignalLine(line string) (SignalSpec, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return SignalSpec{}, NewFormatError(ErrCodeHeader, "", "malformed signal line %q", line)
	}

	spec := SignalSpec{
		FileName: fields[0],
		Gain:     defaultGain,
		Units:    "mV",
	}

	// Format may carry a samples-per-frame multiplier ("16x2"); only the
	// leading number identifies the storage format.
	fmtField := fields[1]
	if i := strings.IndexAny(fmtField, "x:+"); i >= 0 {
		fmtField = fmtField[:i]
	}
	format, err := strconv.Atoi(fmtField)
	if err != nil {
		return SignalSpec{}, NewFormatError(ErrCodeHeader, "", "bad signal format %q", fields[1])
	}
	spec.Format = format

	if len(fields) >= 3 {
		if err := parseGainField(fields[2], &spec); err != nil {
			return SignalSpec{}, err
		}
	}

	baselineSet := strings.Contains(strings.TrimSpace(safeField(fields, 2)), "(")

	intFields := []struct {
		idx int
		dst *int
	}{
		{3, &spec.ADCRes},
		{4, &spec.ADCZero},
		{5, &spec.InitValue},
		{6, &spec.Checksum},
		{7, &spec.BlockSize},
	}
	for _, f := range intFields {
		if f.idx < len(fields) {
			v, err := strconv.Atoi(fields[f.idx])
			if err != nil {
				return SignalSpec{}, NewFormatError(ErrCodeHeader, "", "bad numeric field %q in %q", fields[f.idx], line)
			}
			*f.dst = v
		}
	}
	// Baseline defaults to the ADC zero when the gain field carries none.
	if !baselineSet {
		spec.Baseline = spec.ADCZero
	}

	if len(fields) > 8 {
		spec.Description = strings.Join(fields[8:], " ")
	}
	return spec, nil
}

// parseGainField parses "gain", "gain(baseline)", "gain/units" or
// "gain(baseline)/units"
func parseGainField(field string, spec *SignalSpec) error {
	rest := field
	if i := strings.Index(rest, "/"); i >= 0 {
		spec.Units = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.Index(rest, "("); i >= 0 {
		j := strings.Index(rest, ")")
		if j < i {
			return NewFormatError(ErrCodeHeader, "", "malformed gain field %q", field)
		}
		baseline, err := strconv.Atoi(rest[i+1 : j])
		if err != nil {
			return NewFormatError(ErrCodeHeader, "", "bad baseline in %q", field)
		}
		spec.Baseline = baseline
		rest = rest[:i]
	}
	gain, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return NewFormatError(ErrCodeHeader, "", "bad gain in %q", field)
	}
	if gain != 0 {
		spec.Gain = gain
	}
	return nil
}

func safeField(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
