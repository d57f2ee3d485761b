package harness

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suite is an ordered list of scenarios loaded from a YAML file.
type Suite struct {
	Name      string
	Scenarios []Scenario
}

type suiteFile struct {
	Name      string          `yaml:"name"`
	Scenarios []scenarioEntry `yaml:"scenarios"`
}

type scenarioEntry struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []stepEntry `yaml:"steps"`
	Expect      []string    `yaml:"expect"`
	Want        int         `yaml:"want"`
}

type stepEntry struct {
	Commands []string    `yaml:"commands"`
	Write    *writeEntry `yaml:"write"`
	Create   string      `yaml:"create"`
}

type writeEntry struct {
	File  string   `yaml:"file"`
	Lines []string `yaml:"lines"`
}

// LoadSuite reads a suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	suite, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if suite.Name == "" {
		suite.Name = path
	}
	return suite, nil
}

// ParseSuite decodes a suite from YAML.
func ParseSuite(data []byte) (*Suite, error) {
	var file suiteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse suite: %w", err)
	}

	suite := &Suite{Name: file.Name}
	seen := make(map[string]bool, len(file.Scenarios))
	for i, entry := range file.Scenarios {
		if entry.Name == "" {
			return nil, fmt.Errorf("scenario %d: name is required", i+1)
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("scenario %q: duplicate name", entry.Name)
		}
		seen[entry.Name] = true

		if len(entry.Steps) == 0 {
			return nil, fmt.Errorf("scenario %q: at least one step is required", entry.Name)
		}

		scenario := Scenario{
			Name:        entry.Name,
			Description: entry.Description,
			Expect:      entry.Expect,
			Want:        Verdict(entry.Want),
		}
		for j, s := range entry.Steps {
			step := Step{Commands: s.Commands, Create: s.Create}
			if s.Write != nil {
				if s.Write.File == "" {
					return nil, fmt.Errorf("scenario %q step %d: write needs a file", entry.Name, j+1)
				}
				step.Write = &WriteRequest{Filename: s.Write.File, Lines: s.Write.Lines}
			}
			if len(step.Commands) == 0 && step.Write == nil && step.Create == "" {
				return nil, fmt.Errorf("scenario %q step %d: empty step", entry.Name, j+1)
			}
			scenario.Steps = append(scenario.Steps, step)
		}
		suite.Scenarios = append(suite.Scenarios, scenario)
	}

	return suite, nil
}

// Select returns the scenarios whose names are listed, in suite order.
func (s *Suite) Select(names ...string) ([]Scenario, error) {
	if len(names) == 0 {
		return s.Scenarios, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var selected []Scenario
	for _, scenario := range s.Scenarios {
		if wanted[scenario.Name] {
			selected = append(selected, scenario)
			delete(wanted, scenario.Name)
		}
	}
	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for name := range wanted {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown scenarios: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

// Names lists scenario names in suite order.
func (s *Suite) Names() []string {
	names := make([]string, 0, len(s.Scenarios))
	for _, scenario := range s.Scenarios {
		names = append(names, scenario.Name)
	}
	return names
}
