package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cs-au-dk/symheap/analysis/memory"

	"gopkg.in/yaml.v3"
)

// Read is a value observed on a path.
type Read struct {
	Step     int    `yaml:"step"`
	Location string `yaml:"location"`
	Value    string `yaml:"value"`
	// Model is the value under the scenario model, if there is one.
	Model string `yaml:"model,omitempty"`
}

// Path is an execution path that reached the end of the scenario.
type Path struct {
	Constraints []string   `yaml:"constraints"`
	Aliases     [][]string `yaml:"aliases,omitempty"`
	Reads       []Read     `yaml:"reads"`
	Heap        string     `yaml:"heap,omitempty"`
	// Failures lists the reads that did not match their expectation.
	Failures []string `yaml:"failures,omitempty"`
	// Memory is the heap at the end of the path.
	Memory memory.Memory `yaml:"-"`
}

func (p Path) condition() string {
	if len(p.Constraints) == 0 {
		return "true"
	}
	return strings.Join(p.Constraints, " ∧ ")
}

// Report collects the paths of a scenario run, ordered by path condition.
type Report struct {
	Scenario string `yaml:"scenario"`
	Paths    []Path `yaml:"paths"`
	Explored int    `yaml:"explored"`
	Pending  int    `yaml:"pending"`
}

func (r *Report) sort() {
	sort.SliceStable(r.Paths, func(i, j int) bool {
		return r.Paths[i].condition() < r.Paths[j].condition()
	})
}

// Failures counts the failed expectations on all paths.
func (r *Report) Failures() (n int) {
	for _, p := range r.Paths {
		n += len(p.Failures)
	}
	return
}

func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "scenario %s: %d paths\n", r.Scenario, len(r.Paths))
	for _, p := range r.Paths {
		fmt.Fprintf(&sb, "path %s\n", p.condition())
		for _, class := range p.Aliases {
			fmt.Fprintf(&sb, "  alias %s\n", strings.Join(class, " = "))
		}
		for _, rd := range p.Reads {
			fmt.Fprintf(&sb, "  %s = %s", rd.Location, rd.Value)
			if rd.Model != "" {
				fmt.Fprintf(&sb, " ⇒ %s", rd.Model)
			}
			sb.WriteString("\n")
		}
		if p.Heap != "" {
			for _, line := range strings.Split(p.Heap, "\n") {
				fmt.Fprintf(&sb, "  | %s\n", line)
			}
		}
		for _, f := range p.Failures {
			fmt.Fprintf(&sb, "  FAIL %s\n", f)
		}
	}
	return sb.String()
}
