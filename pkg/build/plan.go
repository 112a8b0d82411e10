package build

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is a parsed build file.
type Plan struct {
	Project    string            `yaml:"project"`
	Default    string            `yaml:"default"`
	Properties map[string]string `yaml:"properties"`
	Targets    []TargetSpec      `yaml:"targets"`

	// File is the path the plan was read from. It is the file of every location.
	File string `yaml:"-"`
}

// TargetSpec declares a target.
type TargetSpec struct {
	Name    string     `yaml:"name"`
	Depends []string   `yaml:"depends"`
	Tasks   []TaskSpec `yaml:"tasks"`
	Line    int        `yaml:"line"`
}

// TaskSpec declares a task. With holds the kind-specific attributes.
type TaskSpec struct {
	Kind  string         `yaml:"kind"`
	With  map[string]any `yaml:"with"`
	Tasks []TaskSpec     `yaml:"tasks"`
	Line  int            `yaml:"line"`
}

// UnmarshalYAML records the line the target is declared on, unless set explicitly.
func (t *TargetSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain TargetSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = TargetSpec(p)
	if t.Line == 0 {
		t.Line = node.Line
	}
	return nil
}

// UnmarshalYAML records the line the task is declared on, unless set explicitly.
func (t *TaskSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain TaskSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = TaskSpec(p)
	if t.Line == 0 {
		t.Line = node.Line
	}
	return nil
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return ParsePlan(data, path)
}

// ParsePlan parses and validates plan data; file names the source in locations.
func ParsePlan(data []byte, file string) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", file, err)
	}
	plan.File = file
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks target names, dependencies and the default target.
func (p *Plan) Validate() error {
	seen := make(map[string]bool, len(p.Targets))
	for _, t := range p.Targets {
		if t.Name == "" {
			return fmt.Errorf("target at line %d has no name", t.Line)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate target %q", t.Name)
		}
		seen[t.Name] = true
	}
	for _, t := range p.Targets {
		for _, dep := range t.Depends {
			if !seen[dep] {
				return fmt.Errorf("%w: %q (dependency of %q)", ErrUnknownTarget, dep, t.Name)
			}
		}
		if err := validateTasks(t.Tasks); err != nil {
			return fmt.Errorf("target %q: %w", t.Name, err)
		}
	}
	if p.Default != "" && !seen[p.Default] {
		return fmt.Errorf("%w: default %q", ErrUnknownTarget, p.Default)
	}
	return nil
}

func validateTasks(tasks []TaskSpec) error {
	for _, task := range tasks {
		if task.Kind == "" {
			return fmt.Errorf("task at line %d has no kind", task.Line)
		}
		if err := validateTasks(task.Tasks); err != nil {
			return err
		}
	}
	return nil
}

// Target looks up a target by name.
func (p *Plan) Target(name string) (TargetSpec, bool) {
	for _, t := range p.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return TargetSpec{}, false
}

// Order returns the execution sequence for the requested targets: dependencies first,
// depth-first in declaration order, each target once. With no targets, the default runs.
func (p *Plan) Order(targets ...string) ([]string, error) {
	if len(targets) == 0 {
		if p.Default == "" {
			return nil, ErrNoTarget
		}
		targets = []string{p.Default}
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var order []string

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %v -> %s", ErrDependencyCycle, path, name)
		}
		target, ok := p.Target(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTarget, name)
		}
		state[name] = visiting
		path = append(append([]string(nil), path...), name)
		for _, dep := range target.Depends {
			if err := visit(dep, path); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range targets {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}
