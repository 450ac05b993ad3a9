// Package output renders estimation results, wave tables and batch summaries
// in the formats the CLI exposes.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/cardiosignal/ecg-metrics/internal/batch"
	"github.com/cardiosignal/ecg-metrics/pkg/ecg/spectral"
	"github.com/cardiosignal/ecg-metrics/pkg/ludb"
)

// Format selects the output rendering
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// ParseFormat resolves an output format string
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return Format(s), nil
	}
	return "", fmt.Errorf("unrecognized output format %q, want table|json|yaml|csv", s)
}

// Renderer writes results in a chosen format
type Renderer struct {
	w       io.Writer
	format  Format
	printer *message.Printer
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer, format Format) *Renderer {
	return &Renderer{
		w:       w,
		format:  format,
		printer: message.NewPrinter(language.English),
	}
}

// Estimate renders a single-record estimation result
func (r *Renderer) Estimate(record string, mode spectral.Mode, value float64) error {
	type result struct {
		Record string  `json:"record" yaml:"record"`
		Mode   string  `json:"mode" yaml:"mode"`
		Value  float64 `json:"value" yaml:"value"`
		Unit   string  `json:"unit" yaml:"unit"`
	}
	res := result{Record: record, Mode: mode.String(), Value: value, Unit: unitFor(mode)}

	switch r.format {
	case FormatJSON:
		return r.renderJSON(res)
	case FormatYAML:
		return r.renderYAML(res)
	case FormatCSV:
		return r.renderCSV([][]string{
			{"record", "mode", "value", "unit"},
			{res.Record, res.Mode, formatFloat(res.Value), res.Unit},
		})
	default:
		_, err := fmt.Fprintf(r.w, "%s: %.2f %s (%s)\n", res.Record, res.Value, res.Unit, res.Mode)
		return err
	}
}

// Waves renders per-lead wave delineations
func (r *Renderer) Waves(record string, waves map[string][]ludb.Waveform) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(map[string]any{"record": record, "waves": waves})
	case FormatYAML:
		return r.renderYAML(map[string]any{"record": record, "waves": waves})
	case FormatCSV:
		rows := [][]string{{"lead", "kind", "onset", "peak", "offset", "duration_ms"}}
		for _, lead := range sortedKeys(waves) {
			for _, w := range waves[lead] {
				rows = append(rows, []string{
					lead, string(w.Kind),
					strconv.Itoa(w.Onset), strconv.Itoa(w.Peak), strconv.Itoa(w.Offset),
					formatFloat(w.DurationMS),
				})
			}
		}
		return r.renderCSV(rows)
	default:
		tw := tabwriter.NewWriter(r.w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "LEAD\tWAVE\tONSET\tPEAK\tOFFSET\tDURATION (ms)")
		for _, lead := range sortedKeys(waves) {
			for _, w := range waves[lead] {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.1f\n",
					lead, w.Kind, w.Onset, w.Peak, w.Offset, w.DurationMS)
			}
		}
		return tw.Flush()
	}
}

// Records renders a database record listing
func (r *Renderer) Records(dir string, records []string) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(map[string]any{"dir": dir, "records": records})
	case FormatYAML:
		return r.renderYAML(map[string]any{"dir": dir, "records": records})
	case FormatCSV:
		rows := [][]string{{"record"}}
		for _, rec := range records {
			rows = append(rows, []string{rec})
		}
		return r.renderCSV(rows)
	default:
		for _, rec := range records {
			if _, err := fmt.Fprintln(r.w, rec); err != nil {
				return err
			}
		}
		_, err := r.printer.Fprintf(r.w, "%d record(s) in %s\n", len(records), dir)
		return err
	}
}

// BatchSummary renders a batch run
func (r *Renderer) BatchSummary(s *batch.Summary) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(s)
	case FormatYAML:
		return r.renderYAML(s)
	case FormatCSV:
		rows := [][]string{{"record", "value", "error_code"}}
		for _, res := range s.Results {
			rows = append(rows, []string{res.Record, formatFloat(res.Value), res.ErrorCode})
		}
		return r.renderCSV(rows)
	default:
		tw := tabwriter.NewWriter(r.w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "RECORD\tVALUE\tERROR")
		for _, res := range s.Results {
			if res.Error != "" {
				fmt.Fprintf(tw, "%s\t-\t%s\n", res.Record, res.ErrorCode)
				continue
			}
			fmt.Fprintf(tw, "%s\t%.2f\t\n", res.Record, res.Value)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if _, err := r.printer.Fprintf(r.w, "\n%d record(s): %d succeeded, %d failed (%.1fs)\n",
			s.Records, s.Succeeded, s.Failed, s.ElapsedSeconds); err != nil {
			return err
		}
		if s.Stats != nil {
			_, err := fmt.Fprintf(r.w, "mean %.2f  median %.2f  min %.2f  max %.2f  stddev %.2f\n",
				s.Stats.Mean, s.Stats.Median, s.Stats.Min, s.Stats.Max, s.Stats.StdDev)
			return err
		}
		return nil
	}
}

func (r *Renderer) renderJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) renderYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.w.Write(data)
	return err
}

func (r *Renderer) renderCSV(rows [][]string) error {
	cw := csv.NewWriter(r.w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func unitFor(mode spectral.Mode) string {
	if mode == spectral.ModeRRInterval {
		return "ms"
	}
	return "bpm"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedKeys(m map[string][]ludb.Waveform) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
