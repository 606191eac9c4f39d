// Package scenario runs small heap programs written in YAML against the
// symbolic memory model. A scenario declares its symbolic inputs and a list
// of steps. Forks split the execution, and every path that reaches the end
// reports the values it read.
package scenario

import (
	"io"
	"os"

	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/utils/slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scenario is a heap program.
type Scenario struct {
	Name string `yaml:"name"`
	// Symbols maps the name of every symbolic input to its sort.
	Symbols map[string]string `yaml:"symbols"`
	// Model optionally assigns constants to symbols. Reads are then also
	// evaluated under the model.
	Model map[string]string `yaml:"model"`
	Steps []Step            `yaml:"steps"`
}

// Step is a single heap operation. Which fields are used depends on Op.
//
// Locations are given by exactly one of Field, Array, Len, Map and Set,
// together with Ref and, for arrays and maps, Index or Key.
type Step struct {
	Op string `yaml:"op"`

	Name  string `yaml:"name,omitempty"`
	Field string `yaml:"field,omitempty"`
	Array string `yaml:"array,omitempty"`
	Len   string `yaml:"len,omitempty"`
	Map   string `yaml:"map,omitempty"`
	Set   string `yaml:"set,omitempty"`
	Sort  string `yaml:"sort,omitempty"`

	Ref   string `yaml:"ref,omitempty"`
	Index string `yaml:"index,omitempty"`
	Key   string `yaml:"key,omitempty"`

	Value  string `yaml:"value,omitempty"`
	Guard  string `yaml:"guard,omitempty"`
	Cond   string `yaml:"cond,omitempty"`
	Expect string `yaml:"expect,omitempty"`

	Src     string   `yaml:"src,omitempty"`
	Dst     string   `yaml:"dst,omitempty"`
	SrcFrom string   `yaml:"src-from,omitempty"`
	DstFrom string   `yaml:"dst-from,omitempty"`
	Count   string   `yaml:"count,omitempty"`
	Refs    []string `yaml:"refs,omitempty"`
}

const (
	opAlloc      = "alloc"
	opAllocArray = "alloc-array"
	opWrite      = "write"
	opRead       = "read"
	opMerge      = "merge"
	opCopy       = "copy"
	opFork       = "fork"
	opAssume     = "assume"
	opAlias      = "alias"
	opDump       = "dump"
)

// Parse decodes a scenario and checks its declarations.
func Parse(r io.Reader) (*Scenario, error) {
	s := &Scenario{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, errors.Wrap(err, "decoding scenario")
	}
	return s, s.validate()
}

// Load parses the scenario stored at path.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	s, err := Parse(f)
	return s, errors.Wrapf(err, "loading %s", path)
}

func (s *Scenario) validate() error {
	for name, sort := range s.Symbols {
		if _, ok := expr.ParseSort(sort); !ok {
			return errors.Errorf("symbol %s has unknown sort %q", name, sort)
		}
	}
	for name := range s.Model {
		if _, found := s.Symbols[name]; !found {
			return errors.Errorf("model assigns undeclared symbol %s", name)
		}
	}
	for idx, step := range s.Steps {
		if !slices.OneOf(step.Op, opAlloc, opAllocArray, opWrite, opRead, opMerge,
			opCopy, opFork, opAssume, opAlias, opDump) {
			return errors.Errorf("step %d: unknown operation %q", idx, step.Op)
		}
	}
	return nil
}
