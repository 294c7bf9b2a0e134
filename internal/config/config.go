package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"schedtex/internal/fileutil"
)

const (
	DefaultURL          = "https://gist.githubusercontent.com/blabber/babc4803141b0ec13fd613cc84eae074/raw"
	DefaultTimeout      = 20 * time.Second
	DefaultExcludeStage = "Newforces Stage"
)

// Geometry holds the hand-tuned drawing constants of one pass, in cm.
type Geometry struct {
	// Height is the vertical length of the whole time span.
	Height float64 `yaml:"height" json:"height"`
	// DayWidth and DayPadding place day columns next to each other. The
	// single-day pass always draws at x = 0 and ignores them.
	DayWidth   float64 `yaml:"day_width" json:"day_width"`
	DayPadding float64 `yaml:"day_padding" json:"day_padding"`
	// StageWidth is the width of a single stage column and its boxes.
	StageWidth float64 `yaml:"stage_width" json:"stage_width"`
	// TimeSize and TextSize are TeX size switches for the two label lines.
	TimeSize string `yaml:"time_size" json:"time_size"`
	TextSize string `yaml:"text_size" json:"text_size"`
	// MinEnd seeds the latest end minute so an all-placeholder pass still
	// gets a usable scale. Zero leaves it unset.
	MinEnd int `yaml:"min_end" json:"min_end"`
	// NFCLabels composes combining sequences in event labels. Off keeps
	// label bytes exactly as the feed sent them.
	NFCLabels bool `yaml:"nfc_labels" json:"nfc_labels"`
}

// OverviewConfig renders all days into a single file.
type OverviewConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	File    string `yaml:"file" json:"file"`
	// ExcludeStage names a stage left out of the overview. Empty keeps all.
	ExcludeStage string   `yaml:"exclude_stage" json:"exclude_stage"`
	Geometry     Geometry `yaml:"geometry" json:"geometry"`
}

// PairedConfig renders the first Days days on a shared time scale, one file
// per day.
type PairedConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Days    int  `yaml:"days" json:"days"`
	// FilePattern is a fmt pattern receiving the 1-based day number.
	FilePattern string   `yaml:"file_pattern" json:"file_pattern"`
	Geometry    Geometry `yaml:"geometry" json:"geometry"`
}

// SingleConfig renders every day after the paired ones on its own scale.
type SingleConfig struct {
	Enabled     bool     `yaml:"enabled" json:"enabled"`
	FilePattern string   `yaml:"file_pattern" json:"file_pattern"`
	Geometry    Geometry `yaml:"geometry" json:"geometry"`
}

// Config is the top-level application configuration.
type Config struct {
	// URL is the JSON schedule feed.
	URL string `yaml:"url" json:"url"`

	// InsecureSkipVerify turns off TLS certificate and hostname checks
	// for the feed.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" json:"insecure_skip_verify"`

	// Timeout bounds the feed request.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// OutputDir receives the generated .tex fragments.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Overview OverviewConfig `yaml:"overview" json:"overview"`
	Paired   PairedConfig   `yaml:"paired" json:"paired"`
	Single   SingleConfig   `yaml:"single" json:"single"`
}

func defaultOverviewGeometry() Geometry {
	return Geometry{
		Height:     19,
		DayWidth:   5.4,
		DayPadding: 0.25,
		StageWidth: 2.7,
		TimeSize:   `\tiny`,
		TextSize:   `\footnotesize`,
	}
}

func defaultPairedGeometry() Geometry {
	return Geometry{
		Height:     24,
		DayWidth:   16.5,
		DayPadding: 0,
		StageWidth: 5.5,
		TimeSize:   `\scriptsize`,
		TextSize:   `\small`,
	}
}

func defaultSingleGeometry() Geometry {
	return Geometry{
		Height:     24,
		DayWidth:   16.5,
		DayPadding: 0,
		StageWidth: 8.25,
		TimeSize:   `\scriptsize`,
		TextSize:   `\small`,
		MinEnd:     30,
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		URL:       DefaultURL,
		Timeout:   DefaultTimeout,
		OutputDir: ".",
		LogLevel:  "info",
		Overview: OverviewConfig{
			Enabled:      true,
			File:         "mdjson.tex",
			ExcludeStage: DefaultExcludeStage,
			Geometry:     defaultOverviewGeometry(),
		},
		Paired: PairedConfig{
			Enabled:     true,
			Days:        2,
			FilePattern: "mdjson-day%d.tex",
			Geometry:    defaultPairedGeometry(),
		},
		Single: SingleConfig{
			Enabled:     true,
			FilePattern: "mdjson-day%d.tex",
			Geometry:    defaultSingleGeometry(),
		},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly. Enabled flags and ExcludeStage
// are taken as written.
func (c *Config) Normalize() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Overview.File == "" {
		c.Overview.File = "mdjson.tex"
	}
	c.Overview.Geometry.fill(defaultOverviewGeometry())

	if c.Paired.Days < 0 {
		c.Paired.Days = 0
	}
	if c.Paired.FilePattern == "" {
		c.Paired.FilePattern = "mdjson-day%d.tex"
	}
	c.Paired.Geometry.fill(defaultPairedGeometry())

	if c.Single.FilePattern == "" {
		c.Single.FilePattern = "mdjson-day%d.tex"
	}
	c.Single.Geometry.fill(defaultSingleGeometry())
}

// fill copies size fields from def where g leaves them unset. DayPadding
// and MinEnd are legitimately zero and are not touched.
func (g *Geometry) fill(def Geometry) {
	if g.Height <= 0 {
		g.Height = def.Height
	}
	if g.DayWidth <= 0 {
		g.DayWidth = def.DayWidth
	}
	if g.StageWidth <= 0 {
		g.StageWidth = def.StageWidth
	}
	if g.TimeSize == "" {
		g.TimeSize = def.TimeSize
	}
	if g.TextSize == "" {
		g.TextSize = def.TextSize
	}
}

// Validate reports settings that cannot produce output.
func (c *Config) Validate() error {
	var problems []string
	if !c.Overview.Enabled && !c.Paired.Enabled && !c.Single.Enabled {
		problems = append(problems, "no rendering pass is enabled")
	}
	if c.Paired.Enabled && !strings.Contains(c.Paired.FilePattern, "%d") {
		problems = append(problems, "paired.file_pattern must contain %d")
	}
	if c.Single.Enabled && !strings.Contains(c.Single.FilePattern, "%d") {
		problems = append(problems, "single.file_pattern must contain %d")
	}
	if c.Overview.Geometry.DayPadding < 0 || c.Paired.Geometry.DayPadding < 0 || c.Single.Geometry.DayPadding < 0 {
		problems = append(problems, "day_padding must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If path is empty, the defaults are returned and nothing is written.
//   - If the file does not exist, the defaults are written there with 0600
//     permissions and returned.
//   - Otherwise the YAML is read, unmarshalled over the defaults and
//     normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
