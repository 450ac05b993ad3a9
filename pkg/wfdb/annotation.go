package wfdb

import (
	"bufio"
	"io"
	"os"
)

// Pseudo-annotation codes of the MIT annotation format
const (
	codeSkip = 59
	codeNum  = 60
	codeSub  = 61
	codeChan = 62
	codeAux  = 63
)

// annSymbols maps standard WFDB annotation codes to their mnemonic symbols
var annSymbols = map[int]string{
	1: "N", 2: "L", 3: "R", 4: "a", 5: "V", 6: "F", 7: "J", 8: "A",
	9: "S", 10: "E", 11: "j", 12: "/", 13: "Q", 14: "~", 16: "|",
	18: "s", 19: "T", 20: "*", 21: "D", 22: "\"", 23: "=", 24: "p",
	25: "B", 26: "^", 27: "t", 28: "+", 29: "u", 30: "?", 31: "!",
	32: "[", 33: "]", 34: "e", 35: "n", 36: "@", 37: "x", 38: "f",
	39: "(", 40: ")", 41: "r",
}

// Annotation is one event of a WFDB annotation file
type Annotation struct {
	Sample  int    `json:"sample"` // sample index of the event
	Code    int    `json:"code"`
	Symbol  string `json:"symbol"`
	Subtype int    `json:"subtype"`
	Chan    int    `json:"chan"`
	Num     int    `json:"num"`
	Aux     string `json:"aux,omitempty"`
}

// ReadAnnotationFile reads the MIT-format annotation file at path
func ReadAnnotationFile(path string) ([]Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Code: ErrCodeAnnotation, File: path, Message: "open annotation file", Cause: err}
	}
	defer f.Close()

	anns, err := ReadAnnotations(f)
	if err != nil {
		if fe, ok := err.(*FormatError); ok {
			fe.File = path
		}
		return nil, err
	}
	return anns, nil
}

// ReadAnnotations decodes a stream of MIT-format annotation words. Each word
// is a little-endian 16-bit value: the top 6 bits are the annotation code and
// the bottom 10 the sample interval since the previous annotation. The
// pseudo-annotations SKIP, NUM, SUB, CHN and AUX modify the surrounding real
// annotations; a zero word terminates the stream.
func ReadAnnotations(r io.Reader) ([]Annotation, error) {
	br := bufio.NewReader(r)

	var (
		anns    []Annotation
		sample  int
		skip    int
		channel int
		num     int
	)

	readWord := func() (int, error) {
		lo, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		hi, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		return int(lo) | int(hi)<<8, nil
	}

	for {
		word, err := readWord()
		if err == io.EOF {
			// A missing terminator is tolerated; everything decoded so
			// far is returned.
			return anns, nil
		}
		if err != nil {
			return nil, &FormatError{Code: ErrCodeAnnotation, Message: "read annotation word", Cause: err}
		}

		code := word >> 10
		delta := word & 0x3ff

		if code == 0 && delta == 0 {
			return anns, nil
		}

		switch code {
		case codeSkip:
			// A long interval: the next two words hold the high and low
			// 16 bits, in that order.
			hi16, err := readWord()
			if err != nil {
				return nil, &FormatError{Code: ErrCodeAnnotation, Message: "truncated SKIP interval", Cause: err}
			}
			lo16, err := readWord()
			if err != nil {
				return nil, &FormatError{Code: ErrCodeAnnotation, Message: "truncated SKIP interval", Cause: err}
			}
			skip += int(int32(uint32(hi16)<<16 | uint32(lo16)))
		case codeNum:
			num = signed10(delta)
			if len(anns) > 0 {
				anns[len(anns)-1].Num = num
			}
		case codeSub:
			if len(anns) > 0 {
				anns[len(anns)-1].Subtype = signed10(delta)
			}
		case codeChan:
			channel = delta
			if len(anns) > 0 {
				anns[len(anns)-1].Chan = channel
			}
		case codeAux:
			// delta is the byte count of the aux string, padded to an
			// even number of bytes.
			n := delta
			buf := make([]byte, n+n%2)
			if _, err := io.ReadFull(br, buf); err != nil {
				return nil, &FormatError{Code: ErrCodeAnnotation, Message: "truncated AUX field", Cause: err}
			}
			if len(anns) > 0 {
				anns[len(anns)-1].Aux = string(trimNul(buf[:n]))
			}
		default:
			sample += skip + delta
			skip = 0
			anns = append(anns, Annotation{
				Sample: sample,
				Code:   code,
				Symbol: symbolFor(code),
				Chan:   channel,
				Num:    num,
			})
		}
	}
}

// symbolFor returns the mnemonic symbol for code, or "?" for codes without one
func symbolFor(code int) string {
	if s, ok := annSymbols[code]; ok {
		return s
	}
	return "?"
}

// signed10 interprets a 10-bit field as a signed value
func signed10(v int) int {
	if v > 511 {
		return v - 1024
	}
	return v
}

func trimNul(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return b
}
