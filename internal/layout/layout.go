package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"schedtex/internal/config"
	"schedtex/internal/fileutil"
	appLog "schedtex/internal/log"
	"schedtex/internal/model"
	"schedtex/internal/tikz"
	"schedtex/internal/timeline"
)

// Pass identifies the rendering pass that produced an artifact.
type Pass string

const (
	PassOverview Pass = "overview"
	PassPaired   Pass = "paired"
	PassSingle   Pass = "single"
)

// Artifact is one rendered output file, held in memory until written.
type Artifact struct {
	Pass    Pass
	File    string
	Days    int
	Events  int
	Content string
}

// Driver runs the configured passes over a schedule.
type Driver struct {
	cfg *config.Config
}

// NewDriver creates a Driver for cfg.
func NewDriver(cfg *config.Config) *Driver {
	return &Driver{cfg: cfg}
}

// Render produces all artifacts in memory. The schedule is never modified;
// the overview filter works on its own copy so the per-day passes always
// see every stage.
func (d *Driver) Render(s model.Schedule) ([]Artifact, error) {
	var out []Artifact

	paired := 0
	if d.cfg.Paired.Enabled {
		paired = min(d.cfg.Paired.Days, len(s.Days))
		arts, err := Paired(s.Days[:paired], d.cfg.Paired.Geometry, d.cfg.Paired.FilePattern)
		if err != nil {
			return nil, fmt.Errorf("paired pass: %w", err)
		}
		out = append(out, arts...)
	}

	if d.cfg.Single.Enabled {
		arts, err := Single(s.Days[paired:], paired, d.cfg.Single.Geometry, d.cfg.Single.FilePattern)
		if err != nil {
			return nil, fmt.Errorf("single pass: %w", err)
		}
		out = append(out, arts...)
	}

	if d.cfg.Overview.Enabled {
		days := s.Days
		if d.cfg.Overview.ExcludeStage != "" {
			filtered := s.WithoutStage(d.cfg.Overview.ExcludeStage)
			appLog.Debug("overview filter applied",
				"stage", d.cfg.Overview.ExcludeStage,
				"days_before", len(s.Days),
				"days_after", len(filtered.Days),
			)
			days = filtered.Days
		}
		art, err := Overview(days, d.cfg.Overview.Geometry, d.cfg.Overview.File)
		if err != nil {
			return nil, fmt.Errorf("overview pass: %w", err)
		}
		out = append(out, art)
	}

	if err := checkUnique(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Write stores every artifact under the configured output directory. Each
// file is replaced atomically.
func (d *Driver) Write(arts []Artifact) error {
	if err := os.MkdirAll(d.cfg.OutputDir, 0o755); err != nil {
		return err
	}
	for _, a := range arts {
		path := filepath.Join(d.cfg.OutputDir, a.File)
		if err := fileutil.WriteAtomic(path, []byte(a.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		appLog.Info("artifact written", "pass", a.Pass, "path", path, "bytes", len(a.Content), "events", a.Events)
	}
	return nil
}

// Run renders everything first and only then writes, so a failing pass
// leaves no files behind.
func (d *Driver) Run(s model.Schedule) ([]Artifact, error) {
	arts, err := d.Render(s)
	if err != nil {
		return nil, err
	}
	if err := d.Write(arts); err != nil {
		return nil, err
	}
	return arts, nil
}

// Overview renders all days side by side on a common time scale.
func Overview(days []model.Day, g config.Geometry, file string) (Artifact, error) {
	offset, scale, err := scaleFor(days, g)
	if err != nil {
		return Artifact{}, err
	}

	var b tikz.Builder
	for di, day := range days {
		if err := drawDay(&b, day, dayX(di, g), offset, scale, g); err != nil {
			return Artifact{}, fmt.Errorf("day %d: %w", di+1, err)
		}
	}

	appLog.Info("overview rendered", "days", len(days), "events", b.Events(), "offset", offset)
	return Artifact{Pass: PassOverview, File: file, Days: len(days), Events: b.Events(), Content: b.String()}, nil
}

// Paired renders days on one shared time scale, one artifact per day. Each
// day keeps its column offset so the files line up when placed in one
// picture.
func Paired(days []model.Day, g config.Geometry, pattern string) ([]Artifact, error) {
	if len(days) == 0 {
		return nil, nil
	}
	offset, scale, err := scaleFor(days, g)
	if err != nil {
		return nil, err
	}

	arts := make([]Artifact, 0, len(days))
	for di, day := range days {
		var b tikz.Builder
		if err := drawDay(&b, day, dayX(di, g), offset, scale, g); err != nil {
			return nil, fmt.Errorf("day %d: %w", di+1, err)
		}
		arts = append(arts, Artifact{
			Pass:    PassPaired,
			File:    fmt.Sprintf(pattern, di+1),
			Days:    1,
			Events:  b.Events(),
			Content: b.String(),
		})
	}
	appLog.Info("paired days rendered", "days", len(days), "offset", offset)
	return arts, nil
}

// Single renders each day on its own time scale. first is the index of
// days[0] in the full schedule and drives file numbering.
func Single(days []model.Day, first int, g config.Geometry, pattern string) ([]Artifact, error) {
	arts := make([]Artifact, 0, len(days))
	for i, day := range days {
		n := first + i + 1
		offset, scale, err := scaleFor([]model.Day{day}, g)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", n, err)
		}

		var b tikz.Builder
		if err := drawDay(&b, day, 0, offset, scale, g); err != nil {
			return nil, fmt.Errorf("day %d: %w", n, err)
		}
		arts = append(arts, Artifact{
			Pass:    PassSingle,
			File:    fmt.Sprintf(pattern, n),
			Days:    1,
			Events:  b.Events(),
			Content: b.String(),
		})
		appLog.Debug("single day rendered", "day", n, "events", b.Events(), "offset", offset)
	}
	return arts, nil
}

func scaleFor(days []model.Day, g config.Geometry) (int, float64, error) {
	minStart, maxEnd, err := timeline.Span(days, g.MinEnd)
	if err != nil {
		return 0, 0, err
	}
	scale, err := timeline.Scale(g.Height, minStart, maxEnd)
	if err != nil {
		return 0, 0, err
	}
	return minStart, scale, nil
}

func dayX(di int, g config.Geometry) float64 {
	return float64(di) * (g.DayWidth + g.DayPadding)
}

func drawDay(b *tikz.Builder, day model.Day, x float64, offset int, scale float64, g config.Geometry) error {
	for si, st := range day.Stages {
		slot := tikz.Slot{
			// Rounded separately so the sum matches unfused arithmetic.
			X:        x + float64(float64(si)*g.StageWidth),
			Width:    g.StageWidth,
			Offset:   offset,
			Scale:    scale,
			TimeSize: g.TimeSize,
			TextSize: g.TextSize,
			NFC:      g.NFCLabels,
		}
		for _, ev := range st.Events {
			if err := b.Event(ev, slot); err != nil {
				return fmt.Errorf("stage %q: %w", st.Label, err)
			}
		}
	}
	return nil
}

func checkUnique(arts []Artifact) error {
	seen := make(map[string]Pass, len(arts))
	for _, a := range arts {
		if prev, ok := seen[a.File]; ok {
			return fmt.Errorf("output file %q produced by both %s and %s passes", a.File, prev, a.Pass)
		}
		seen[a.File] = a.Pass
	}
	return nil
}
