package model

// Schedule is the ordered list of festival days as delivered by the
// remote feed. Order is display order.
type Schedule struct {
	Days []Day `json:"days"`
}

// Day groups the stages playing on one calendar day, in display order.
type Day struct {
	Label  string  `json:"label,omitempty"`
	Stages []Stage `json:"stages"`
}

// Stage is a venue or track. Events are expected in chronological order.
type Stage struct {
	Label  string  `json:"label"`
	Events []Event `json:"events"`
}

// Event is a single slot. Time holds the raw range string ("21:00 - 22:15")
// or the placeholder "-" when the slot has no fixed time.
type Event struct {
	Time  string `json:"time"`
	Label string `json:"label"`
}

// Clone returns a deep copy of s so callers can filter without touching
// the loaded schedule.
func (s Schedule) Clone() Schedule {
	out := Schedule{Days: make([]Day, len(s.Days))}
	for i, d := range s.Days {
		nd := Day{Label: d.Label, Stages: make([]Stage, len(d.Stages))}
		for j, st := range d.Stages {
			nd.Stages[j] = Stage{
				Label:  st.Label,
				Events: append([]Event(nil), st.Events...),
			}
		}
		out.Days[i] = nd
	}
	return out
}

// RemoveStage drops every stage named label from every day, in place.
// Days left without stages are dropped; the order of the rest is kept.
func (s *Schedule) RemoveStage(label string) {
	days := s.Days[:0]
	for _, d := range s.Days {
		stages := make([]Stage, 0, len(d.Stages))
		for _, st := range d.Stages {
			if st.Label != label {
				stages = append(stages, st)
			}
		}
		if len(stages) == 0 {
			continue
		}
		d.Stages = stages
		days = append(days, d)
	}
	// Clear the tail so dropped days are not retained by the backing array.
	for i := len(days); i < len(s.Days); i++ {
		s.Days[i] = Day{}
	}
	s.Days = days
}

// WithoutStage is RemoveStage applied to a copy of s.
func (s Schedule) WithoutStage(label string) Schedule {
	out := s.Clone()
	out.RemoveStage(label)
	return out
}

// EventCount returns the number of events across all days and stages.
func EventCount(days []Day) int {
	n := 0
	for _, d := range days {
		for _, st := range d.Stages {
			n += len(st.Events)
		}
	}
	return n
}
