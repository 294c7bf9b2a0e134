package timeline

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Placeholder marks an event without a fixed slot.
	Placeholder = "-"

	// rangeSeparator splits the start and end clock times.
	rangeSeparator = " - "

	// rolloverHour is the first hour still counted as the same festival
	// day. Earlier hours belong to the night after midnight.
	rolloverHour = 10
)

// TimeFormatError reports a time range string that cannot be parsed.
type TimeFormatError struct {
	Raw    string
	Reason string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("invalid time range %q: %s", e.Raw, e.Reason)
}

// ParseRange converts "HH:MM - HH:MM" into minute offsets on the festival
// day timeline. Hours below 10 are shifted by 24h so that late-night slots
// sort after the evening. Hours have no upper bound, so "24:30" is accepted
// as written. The placeholder "-" yields (-1, -1).
func ParseRange(raw string) (start, end int, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == Placeholder {
		return -1, -1, nil
	}

	parts := strings.Split(trimmed, rangeSeparator)
	if len(parts) != 2 {
		return 0, 0, &TimeFormatError{Raw: raw, Reason: fmt.Sprintf("expected two times separated by %q", rangeSeparator)}
	}

	start, err = parseClock(raw, parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err = parseClock(raw, parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseClock(raw, clock string) (int, error) {
	clock = strings.TrimSpace(clock)
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, &TimeFormatError{Raw: raw, Reason: fmt.Sprintf("clock time %q has no ':'", clock)}
	}
	if len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, &TimeFormatError{Raw: raw, Reason: fmt.Sprintf("clock time %q is not H:MM or HH:MM", clock)}
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, &TimeFormatError{Raw: raw, Reason: fmt.Sprintf("bad hour in %q", clock)}
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, &TimeFormatError{Raw: raw, Reason: fmt.Sprintf("bad minute in %q", clock)}
	}

	if hour < rolloverHour {
		hour += 24
	}
	return hour*60 + minute, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
