package spectral

import "strings"

// Mode selects the output unit of the estimator
type Mode int

const (
	// ModeHeartRate reports the estimate in beats per minute
	ModeHeartRate Mode = iota
	// ModeRRInterval reports the estimate as a mean RR interval in milliseconds
	ModeRRInterval
)

func (m Mode) String() string {
	switch m {
	case ModeHeartRate:
		return "heart_rate"
	case ModeRRInterval:
		return "rr_interval"
	}
	return "unknown"
}

// ParseMode resolves a mode string, case-insensitively, accepting the
// aliases "hr" and "rr"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hr", "heart_rate":
		return ModeHeartRate, nil
	case "rr", "rr_interval":
		return ModeRRInterval, nil
	}
	return 0, NewSpectralError(ErrCodeInvalidArgument, "unrecognized mode").
		withValue("%q", s).
		withConstraint("hr|heart_rate|rr|rr_interval")
}

// Layout describes the axis order of a multi-lead signal
type Layout int

const (
	// LayoutLeadFirst is (leads x samples), the native layout of the estimator
	LayoutLeadFirst Layout = iota
	// LayoutLeadLast is (samples x leads)
	LayoutLeadLast
)

func (l Layout) String() string {
	switch l {
	case LayoutLeadFirst:
		return "lead_first"
	case LayoutLeadLast:
		return "lead_last"
	}
	return "unknown"
}

// ParseLayout resolves a layout string, case-insensitively, accepting the
// "channel_*" aliases
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lead_first", "channel_first":
		return LayoutLeadFirst, nil
	case "lead_last", "channel_last":
		return LayoutLeadLast, nil
	}
	return 0, NewSpectralError(ErrCodeInvalidArgument, "unrecognized signal layout").
		withValue("%q", s).
		withConstraint("lead_first|channel_first|lead_last|channel_last")
}
