package utils

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

type options struct {
	budget       time.Duration
	seed         int64
	logLevel     string
	selector     string
	outputFormat string
	mapType      string
	metrics      bool
	noColorize   bool
	verbose      bool
	checkTrees   bool
}

const (
	_SELECTOR_BFS = iota
	_SELECTOR_PRIORITY
	_SELECTOR_WEIGHTED
)

var selectors = []struct{ flag, explanation string }{{
	"bfs",
	"Explore forked states in the order they were created",
}, {
	"priority",
	"Explore the shallowest forked state first",
}, {
	"weighted",
	"Sample the next state with probability inversely proportional to its depth",
}}

// CanColorize wraps a colouring function, disabling it if the no-colorize
// option is set.
func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			var sb strings.Builder
			for _, i := range is {
				fmt.Fprint(&sb, i)
			}
			return sb.String()
		}
	}
	return col
}

var opts = &options{}

var flags = pflag.NewFlagSet("symheap", pflag.ContinueOnError)

type optInterface struct{}

type selectorInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

// FlagSet exposes the option flags so that a command line front end can
// register them.
func FlagSet() *pflag.FlagSet {
	return flags
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}
func (optInterface) Verbose() bool {
	return opts.verbose
}
func (optInterface) Metrics() bool {
	return opts.metrics
}
func (optInterface) CheckTrees() bool {
	return opts.checkTrees
}
func (optInterface) Budget() time.Duration {
	return opts.budget
}
func (optInterface) Seed() int64 {
	return opts.seed
}
func (optInterface) LogLevel() string {
	return opts.logLevel
}
func (optInterface) OutputFormat() string {
	return opts.outputFormat
}
func (optInterface) MapType() string {
	return opts.mapType
}
func (optInterface) Selector() selectorInterface {
	return selectorInterface{}
}
func (selectorInterface) BFS() bool {
	return opts.selector == selectors[_SELECTOR_BFS].flag
}
func (selectorInterface) Priority() bool {
	return opts.selector == selectors[_SELECTOR_PRIORITY].flag
}
func (selectorInterface) Weighted() bool {
	return opts.selector == selectors[_SELECTOR_WEIGHTED].flag
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}

func init() {
	selectorFlag := "\n"
	for _, s := range selectors {
		selectorFlag += s.flag + " -- " + s.explanation + "\n"
	}

	flags.DurationVar(&(opts.budget), "budget", 10*time.Second, "wall-clock budget for exploring forked states")
	flags.Int64Var(&(opts.seed), "seed", 0, "seed for the weighted state selector")
	flags.StringVar(&(opts.logLevel), "log-level", "disabled", "log level [trace | debug | info | warn | error | disabled]")
	flags.StringVar(&(opts.selector), "selector", selectors[_SELECTOR_BFS].flag, "state selection strategy. Options:"+selectorFlag)
	flags.StringVar(&(opts.outputFormat), "format", "svg", "output file format [svg | png | jpg | dot | ...]")
	flags.StringVar(&(opts.mapType), "map-type", "", "map type whose input×input region tree is rendered")
	flags.BoolVar(&(opts.metrics), "metrics", false, "print collection and translator metrics after a run")
	flags.BoolVar(&(opts.noColorize), "no-colorize", false, "disable pretty printer colorization")
	flags.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")
	flags.BoolVar(&(opts.checkTrees), "check-trees", false, "check region tree invariants after every write")

	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}

// ValidateArgs checks option values after the flags have been parsed.
func ValidateArgs() error {
	for _, s := range selectors {
		if s.flag == opts.selector {
			return nil
		}
	}

	return fmt.Errorf("value %q is not valid for --selector", opts.selector)
}
