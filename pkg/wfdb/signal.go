package wfdb

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
)

// ReadSignals reads the sample data referenced by h and converts it to
// physical units via each signal's gain and baseline. Only format 16
// (interleaved little-endian 16-bit two's complement) is supported; all of
// LUDB and most modern PhysioNet databases use it. The result is lead-first.
func ReadSignals(dir string, h *Header) ([][]float64, error) {
	if h.NumSignals == 0 {
		return nil, NewFormatError(ErrCodeSignal, "", "header declares no signals")
	}
	for i, spec := range h.Signals {
		if spec.Format != 16 {
			return nil, NewFormatError(ErrCodeSignal, spec.FileName, "unsupported signal format %d for signal %d", spec.Format, i)
		}
		if spec.FileName != h.Signals[0].FileName {
			return nil, NewFormatError(ErrCodeSignal, spec.FileName, "signals split across multiple files are not supported")
		}
	}

	path := filepath.Join(dir, h.Signals[0].FileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Code: ErrCodeSignal, File: path, Message: "open signal file", Cause: err}
	}
	defer f.Close()

	return readFormat16(f, h, path)
}

func readFormat16(r io.Reader, h *Header, path string) ([][]float64, error) {
	nsig := h.NumSignals
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &FormatError{Code: ErrCodeSignal, File: path, Message: "read signal data", Cause: err}
	}

	frames := len(raw) / (2 * nsig)
	if h.NumSamples > 0 && frames < h.NumSamples {
		return nil, NewFormatError(ErrCodeSignal, path, "signal file holds %d frames, header declares %d", frames, h.NumSamples)
	}
	if h.NumSamples > 0 {
		frames = h.NumSamples
	}

	out := make([][]float64, nsig)
	for s := range out {
		out[s] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for s := 0; s < nsig; s++ {
			off := 2 * (i*nsig + s)
			adc := int16(binary.LittleEndian.Uint16(raw[off : off+2]))
			spec := h.Signals[s]
			out[s][i] = (float64(adc) - float64(spec.Baseline)) / spec.Gain
		}
	}
	return out, nil
}
