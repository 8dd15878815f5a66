package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a validation scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunPrefix prefixes the sequential run ids. Defaults to "test-run".
	RunPrefix string `yaml:"run_prefix,omitempty"`

	// MaxSteps overrides the cycle walk budget when positive.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Steps are checked in order against one gate, so later steps can hit
	// the cache.
	Steps []Step `yaml:"steps"`

	// Assertions validate the verdict log as a whole.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step checks one order document, given either as a file or inline.
type Step struct {
	// Document is a path to a .json, .yaml, .yml or .cue order file,
	// relative to the scenario file.
	Document string `yaml:"document,omitempty"`

	// Order is an inline YAML order document.
	Order *yaml.Node `yaml:"order,omitempty"`

	// Expect specifies the expected verdict. If nil, any verdict passes.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// path is Document resolved against the scenario directory.
	path string
}

// ExpectClause specifies the expected verdict of a step.
type ExpectClause struct {
	Valid bool `yaml:"valid"`

	// ErrorKind, Item and Target are only compared when set.
	ErrorKind string `yaml:"error_kind,omitempty"`
	Item      string `yaml:"item,omitempty"`
	Target    string `yaml:"target,omitempty"`

	// Cached is only compared when set.
	Cached *bool `yaml:"cached,omitempty"`
}

// Assertion validates the verdict log of a scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "verdict_count": number of verdicts recorded in the audit store
	// - "rejected_count": number of recorded verdicts that are not valid
	// - "cache_hits": number of steps served from the verdict cache
	Type string `yaml:"type"`

	// Count is the expected number.
	Count int `yaml:"count"`
}

// Assertion type constants.
const (
	AssertVerdictCount  = "verdict_count"
	AssertRejectedCount = "rejected_count"
	AssertCacheHits     = "cache_hits"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Document paths are resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		if step.Document == "" {
			continue
		}
		step.path = step.Document
		if !filepath.IsAbs(step.path) {
			step.path = filepath.Join(baseDir, step.Document)
		}
		if _, err := os.Stat(step.path); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: steps[%d]: document not found: %s", i, step.Document)
		}
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML held in memory. Document paths are
// left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range scenario.Steps {
		scenario.Steps[i].path = scenario.Steps[i].Document
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative")
	}

	for i, step := range s.Steps {
		hasDoc := step.Document != ""
		hasInline := step.Order != nil
		if hasDoc == hasInline {
			return fmt.Errorf("steps[%d]: exactly one of document or order is required", i)
		}
		if step.Expect != nil && step.Expect.Valid && step.Expect.ErrorKind != "" {
			return fmt.Errorf("steps[%d].expect: error_kind is set on a valid expectation", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertVerdictCount, AssertRejectedCount, AssertCacheHits:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
		return nil
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
}
