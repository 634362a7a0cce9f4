/*
Package factory provides YAML/JSON to Go policy conversion.

PURPOSE:
  Converts policy documents into engine.Policy values. This enables
  policy configuration without code changes - HR can tune the grace
  period, the weekend set, or the default shift window in a config file,
  and the factory produces the proper Go struct.

DOCUMENT SCHEMA (YAML or JSON):

  grace_minutes: 5
  weekend: [saturday, sunday]
  default_shift_start: "08:30"
  default_shift_end: "17:30"
  min_shift_minutes: 60
  remote_credit_hours: 8
  streak_lookback_days: 60
  full_day_hours: 8

  Every field is optional; omitted fields keep the engine defaults.

SEE ALSO:
  - engine/policy.go: Policy type definition and validation
  - cmd/server/main.go: Loads the document at startup
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// DOCUMENT SCHEMA
// =============================================================================

// PolicyDocument is the serialized representation of a policy.
type PolicyDocument struct {
	GraceMinutes       *int     `yaml:"grace_minutes" json:"grace_minutes,omitempty"`
	Weekend            []string `yaml:"weekend" json:"weekend,omitempty"`
	DefaultShiftStart  string   `yaml:"default_shift_start" json:"default_shift_start,omitempty"`
	DefaultShiftEnd    string   `yaml:"default_shift_end" json:"default_shift_end,omitempty"`
	MinShiftMinutes    *int     `yaml:"min_shift_minutes" json:"min_shift_minutes,omitempty"`
	RemoteCreditHours  *float64 `yaml:"remote_credit_hours" json:"remote_credit_hours,omitempty"`
	StreakLookbackDays *int     `yaml:"streak_lookback_days" json:"streak_lookback_days,omitempty"`
	FullDayHours       *float64 `yaml:"full_day_hours" json:"full_day_hours,omitempty"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// =============================================================================
// FACTORY
// =============================================================================

type PolicyFactory struct{}

func NewPolicyFactory() *PolicyFactory { return &PolicyFactory{} }

// ParseYAML builds a policy from a YAML document.
func (f *PolicyFactory) ParseYAML(data []byte) (engine.Policy, error) {
	var doc PolicyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return engine.Policy{}, fmt.Errorf("parsing policy yaml: %w", err)
	}
	return f.Build(doc)
}

// ParseJSON builds a policy from a JSON document.
func (f *PolicyFactory) ParseJSON(data []byte) (engine.Policy, error) {
	var doc PolicyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.Policy{}, fmt.Errorf("parsing policy json: %w", err)
	}
	return f.Build(doc)
}

// Build merges a document over the engine defaults and validates the
// result.
func (f *PolicyFactory) Build(doc PolicyDocument) (engine.Policy, error) {
	pol := engine.DefaultPolicy()

	if doc.GraceMinutes != nil {
		pol.GraceMinutes = *doc.GraceMinutes
	}
	if doc.MinShiftMinutes != nil {
		pol.MinShiftMinutes = *doc.MinShiftMinutes
	}
	if doc.StreakLookbackDays != nil {
		pol.StreakLookbackDays = *doc.StreakLookbackDays
	}
	if doc.RemoteCreditHours != nil {
		pol.RemoteCreditHours = decimal.NewFromFloat(*doc.RemoteCreditHours)
	}
	if doc.FullDayHours != nil {
		pol.FullDayHours = decimal.NewFromFloat(*doc.FullDayHours)
	}

	if len(doc.Weekend) > 0 {
		var weekend []time.Weekday
		for _, name := range doc.Weekend {
			wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return engine.Policy{}, fmt.Errorf("unknown weekday %q", name)
			}
			weekend = append(weekend, wd)
		}
		pol.Weekend = weekend
	}

	if doc.DefaultShiftStart != "" {
		ct, err := engine.ParseClockTime(doc.DefaultShiftStart)
		if err != nil {
			return engine.Policy{}, err
		}
		pol.DefaultShiftStart = ct
	}
	if doc.DefaultShiftEnd != "" {
		ct, err := engine.ParseClockTime(doc.DefaultShiftEnd)
		if err != nil {
			return engine.Policy{}, err
		}
		pol.DefaultShiftEnd = ct
	}

	if err := pol.Validate(); err != nil {
		return engine.Policy{}, fmt.Errorf("invalid policy: %w", err)
	}
	return pol, nil
}
