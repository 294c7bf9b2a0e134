package timeline

import (
	"errors"
	"fmt"

	"schedtex/internal/model"
)

var (
	// ErrEmptyStage is returned when a stage has no events to measure.
	ErrEmptyStage = errors.New("stage has no events")
	// ErrEmptySpan is returned when the measured span has zero length.
	ErrEmptySpan = errors.New("time span is empty")
)

// Span returns the minute window used to scale a rendering pass.
//
// The latest end is taken from the first event of each stage and the
// earliest start from the last event of each stage. floor seeds the end
// bound; a zero floor means unset.
func Span(days []model.Day, floor int) (minStart, maxEnd int, err error) {
	maxEnd = floor
	for _, d := range days {
		for _, st := range d.Stages {
			if len(st.Events) == 0 {
				return 0, 0, fmt.Errorf("stage %q: %w", st.Label, ErrEmptyStage)
			}

			_, end, err := ParseRange(st.Events[0].Time)
			if err != nil {
				return 0, 0, fmt.Errorf("stage %q: %w", st.Label, err)
			}
			if maxEnd == 0 || end > maxEnd {
				maxEnd = end
			}

			start, _, err := ParseRange(st.Events[len(st.Events)-1].Time)
			if err != nil {
				return 0, 0, fmt.Errorf("stage %q: %w", st.Label, err)
			}
			if minStart == 0 || start < minStart {
				minStart = start
			}
		}
	}
	return minStart, maxEnd, nil
}

// Scale converts a physical height into a per-minute length. The result
// is negative so later times move down the page.
func Scale(height float64, minStart, maxEnd int) (float64, error) {
	if maxEnd == minStart {
		return 0, fmt.Errorf("span %d..%d: %w", minStart, maxEnd, ErrEmptySpan)
	}
	return -(height / float64(maxEnd-minStart)), nil
}
