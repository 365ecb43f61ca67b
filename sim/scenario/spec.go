// Package scenario loads simulation scenarios from YAML and turns them into a
// sim.Plan.
package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sprint-sim/sprint-sim/sim"
	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

// Defaults applied to fields left empty in a scenario file.
const (
	DefaultVersion      = "1"
	DefaultIssueType    = "Task"
	DefaultComplexity   = 1.0
	DefaultInterval     = 2
	DefaultMaxPerPeriod = "4h"
)

// Spec is the top-level scenario configuration.
// Loaded from YAML via Load(path) or Decode(r).
type Spec struct {
	Version    string       `yaml:"version"`
	Seed       int64        `yaml:"seed"`
	Project    string       `yaml:"project"`
	Board      string       `yaml:"board"`
	CarryOver  *bool        `yaml:"carry_over,omitempty"` // nil = enabled
	MaxSprints int          `yaml:"max_sprints,omitempty"`
	Horizon    int64        `yaml:"horizon,omitempty"` // 0 = unbounded
	Sprints    []SprintSpec `yaml:"sprints"`
	Issues     []IssueSpec  `yaml:"issues"`
}

// SprintSpec defines a planned sprint.
type SprintSpec struct {
	Name     string `yaml:"name"`
	Duration int64  `yaml:"duration"`
}

// IssueSpec defines an issue and how work is logged against it.
type IssueSpec struct {
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description,omitempty"`
	Type        string   `yaml:"type,omitempty"`
	Estimate    string   `yaml:"estimate"`
	Complexity  float64  `yaml:"complexity,omitempty"`
	Sprint      string   `yaml:"sprint,omitempty"`
	Work        WorkSpec `yaml:"work,omitempty"`
}

// WorkSpec parameterizes the work-logging process of an issue.
type WorkSpec struct {
	Interval     int64  `yaml:"interval,omitempty"`
	MaxPerPeriod string `yaml:"max_per_period,omitempty"`
	TestingDelay int64  `yaml:"testing_delay,omitempty"`
	User         string `yaml:"user,omitempty"`
}

// Load reads and strictly decodes a scenario file, applies defaults and
// validates it.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode strictly decodes a scenario, applies defaults and validates it.
// Unknown fields are rejected.
func Decode(r io.Reader) (*Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ApplyDefaults fills empty optional fields.
func (s *Spec) ApplyDefaults() {
	if s.Version == "" {
		s.Version = DefaultVersion
	}
	for i := range s.Issues {
		iss := &s.Issues[i]
		if iss.Type == "" {
			iss.Type = DefaultIssueType
		}
		if iss.Complexity == 0 {
			iss.Complexity = DefaultComplexity
		}
		if iss.Work.Interval == 0 {
			iss.Work.Interval = DefaultInterval
		}
		if iss.Work.MaxPerPeriod == "" {
			iss.Work.MaxPerPeriod = DefaultMaxPerPeriod
		}
	}
}

// CarryOverEnabled reports whether carry-over is on (the default).
func (s *Spec) CarryOverEnabled() bool {
	return s.CarryOver == nil || *s.CarryOver
}

// Validate checks that all fields in the scenario are valid.
func (s *Spec) Validate() error {
	if s.Version != DefaultVersion {
		return fmt.Errorf("unsupported scenario version %q; valid: %s", s.Version, DefaultVersion)
	}
	if s.Project == "" {
		return fmt.Errorf("project is required")
	}
	if s.Board == "" {
		return fmt.Errorf("board is required")
	}
	if s.MaxSprints < 0 {
		return fmt.Errorf("max_sprints must be >= 0, got %d", s.MaxSprints)
	}
	if s.Horizon < 0 {
		return fmt.Errorf("horizon must be >= 0, got %d", s.Horizon)
	}
	if s.MaxSprints > 0 && len(s.Sprints) > s.MaxSprints {
		return fmt.Errorf("%d sprints planned but max_sprints is %d", len(s.Sprints), s.MaxSprints)
	}
	sprints := make(map[string]bool, len(s.Sprints))
	for i, sp := range s.Sprints {
		prefix := fmt.Sprintf("sprints[%d]", i)
		if sp.Name == "" {
			return fmt.Errorf("%s: name is required", prefix)
		}
		if sprints[sp.Name] {
			return fmt.Errorf("%s: duplicate sprint name %q", prefix, sp.Name)
		}
		sprints[sp.Name] = true
		if sp.Duration < 0 {
			return fmt.Errorf("%s: duration must be >= 0, got %d", prefix, sp.Duration)
		}
	}
	for i := range s.Issues {
		if err := validateIssue(&s.Issues[i], i, sprints); err != nil {
			return err
		}
	}
	return nil
}

func validateIssue(iss *IssueSpec, idx int, sprints map[string]bool) error {
	prefix := fmt.Sprintf("issues[%d]", idx)
	if iss.Summary == "" {
		return fmt.Errorf("%s: summary is required", prefix)
	}
	estimate, err := tracker.ParseEstimate(iss.Estimate)
	if err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	if err := sim.ValidateEstimate(estimate, iss.Complexity); err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	if iss.Sprint != "" && !sprints[iss.Sprint] {
		return fmt.Errorf("%s: unknown sprint %q", prefix, iss.Sprint)
	}
	if iss.Work.Interval <= 0 {
		return fmt.Errorf("%s: work.interval must be > 0, got %d", prefix, iss.Work.Interval)
	}
	maxPer, err := tracker.ParseEstimate(iss.Work.MaxPerPeriod)
	if err != nil {
		return fmt.Errorf("%s: work.max_per_period: %w", prefix, err)
	}
	if maxPer <= 0 {
		return fmt.Errorf("%s: work.max_per_period must be > 0h", prefix)
	}
	if iss.Work.TestingDelay < 0 {
		return fmt.Errorf("%s: work.testing_delay must be >= 0, got %d", prefix, iss.Work.TestingDelay)
	}
	return nil
}

// Config returns the run configuration for the scenario.
func (s *Spec) Config() sim.Config {
	cfg := sim.DefaultConfig(s.Seed)
	cfg.CarryOver = s.CarryOverEnabled()
	cfg.MaxSprints = s.MaxSprints
	if s.Horizon > 0 {
		cfg.Horizon = s.Horizon
	}
	return cfg
}

// Plan converts a validated spec into a sim.Plan.
func (s *Spec) Plan() (sim.Plan, error) {
	plan := sim.Plan{Board: s.Board}
	for _, sp := range s.Sprints {
		plan.Sprints = append(plan.Sprints, sim.SprintPlan{Name: sp.Name, Duration: sp.Duration})
	}
	for i, iss := range s.Issues {
		estimate, err := tracker.ParseEstimate(iss.Estimate)
		if err != nil {
			return sim.Plan{}, fmt.Errorf("issues[%d]: %w", i, err)
		}
		maxPer, err := tracker.ParseEstimate(iss.Work.MaxPerPeriod)
		if err != nil {
			return sim.Plan{}, fmt.Errorf("issues[%d]: %w", i, err)
		}
		plan.Issues = append(plan.Issues, sim.IssuePlan{
			IssueSpec: sim.IssueSpec{
				Project:     s.Project,
				Summary:     iss.Summary,
				Description: iss.Description,
				IssueType:   iss.Type,
				Estimate:    estimate,
				Complexity:  iss.Complexity,
			},
			Sprint:       iss.Sprint,
			Interval:     iss.Work.Interval,
			MaxPerPeriod: maxPer,
			TestingDelay: iss.Work.TestingDelay,
			User:         iss.Work.User,
		})
	}
	logrus.Debugf("scenario %q: %d sprints, %d issues", s.Board, len(plan.Sprints), len(plan.Issues))
	return plan, nil
}

// WithSeed returns a copy of the scenario using seed.
func (s *Spec) WithSeed(seed int64) *Spec {
	cp := *s
	cp.Seed = seed
	return &cp
}

// Encode writes the scenario as YAML.
func (s *Spec) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}
	return enc.Close()
}

