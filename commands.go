package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cs-au-dk/symheap/analysis/collection"
	"github.com/cs-au-dk/symheap/analysis/explore"
	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/scenario"
	"github.com/cs-au-dk/symheap/utils"
	"github.com/cs-au-dk/symheap/utils/dot"
	"github.com/cs-au-dk/symheap/utils/logging"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	opts   = utils.Opts()
	logger = logging.For("main")

	asYAML   bool
	treePath int
	treeSort string
	treeOut  string

	rootCmd = &cobra.Command{
		Use:   "symheap",
		Short: "Symbolic heap model for symbolic execution",
		Long: `symheap runs heap scenarios against a symbolic memory model where
objects, arrays and reference-keyed maps may be allocated or come from
the unknown input heap.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.ValidateArgs(); err != nil {
				return err
			}
			return logging.Configure(opts.LogLevel())
		},
	}

	runCmd = &cobra.Command{
		Use:   "run [scenario.yaml...]",
		Short: "Run scenarios and report the values read on every path",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runScenarios,
	}

	treeCmd = &cobra.Command{
		Use:   "tree [scenario.yaml]",
		Short: "Render the input×input region tree of a map type after a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  renderTree,
	}
)

func init() {
	rootCmd.PersistentFlags().AddFlagSet(utils.FlagSet())

	runCmd.Flags().BoolVar(&asYAML, "yaml", false, "print reports as YAML")

	treeCmd.Flags().IntVar(&treePath, "path", 0, "index of the path whose heap is rendered")
	treeCmd.Flags().StringVar(&treeSort, "sort", expr.IntSort.String(), "value sort of the map")
	treeCmd.Flags().StringVarP(&treeOut, "output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(runCmd, treeCmd)
}

func explorer() explore.Explorer {
	return explore.Explorer{
		Selector: explore.SelectorFromOptions(),
		Budget:   opts.Budget(),
	}
}

func runScenarios(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reports := []*scenario.Report{}
	failed := false

	for _, path := range args {
		utils.VerbosePrint("Running %s\n", path)
		s, err := scenario.Load(path)
		if err != nil {
			return err
		}

		report, err := scenario.Run(s, explorer())
		switch {
		case errors.Is(err, scenario.ErrExpectation):
			failed = true
		case err != nil:
			logger.Error("scenario failed", err, map[string]any{"file": path})
			if report == nil {
				return err
			}
			failed = true
		}

		if err := printReport(out, report); err != nil {
			return err
		}
		opts.OnVerbose(func() {
			fmt.Fprintf(out, "%s: explored %d states, %d pending\n", path, report.Explored, report.Pending)
		})
		reports = append(reports, report)
	}

	if err := gatherMetrics(out, reports); err != nil {
		return err
	}
	if failed {
		return errors.New("some scenarios did not pass")
	}
	return nil
}

func printReport(w io.Writer, report *scenario.Report) error {
	if !asYAML {
		_, err := fmt.Fprint(w, report)
		return err
	}

	bs, err := report.YAML()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "---\n%s", bs)
	return err
}

func renderTree(cmd *cobra.Command, args []string) error {
	if opts.MapType() == "" {
		return errors.New("--map-type is required")
	}
	sort, ok := expr.ParseSort(treeSort)
	if !ok {
		return errors.Errorf("unknown sort %q", treeSort)
	}
	// Labels end up in the graph verbatim.
	if err := utils.FlagSet().Set("no-colorize", "true"); err != nil {
		return err
	}

	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	report, runErr := scenario.Run(s, explorer())
	if report == nil {
		return runErr
	}
	if treePath < 0 || treePath >= len(report.Paths) {
		return errors.Errorf("scenario %s has %d paths", s.Name, len(report.Paths))
	}

	updates := report.Paths[treePath].Memory.RefMap(opts.MapType(), sort).Shared(collection.Input).Updates()
	g := updates.Dot(fmt.Sprintf("%s: %s[input, input]", s.Name, opts.MapType()))
	logger.Info("rendering region tree", map[string]any{"nodes": g.NodeCount(), "edges": len(g.Edges)})

	var buf bytes.Buffer
	if err := g.WriteDot(&buf); err != nil {
		return err
	}

	if treeOut == "" {
		err = writeTree(cmd.OutOrStdout(), buf.Bytes())
	} else {
		err = writeTreeFile(treeOut, buf.Bytes())
	}
	if err != nil {
		return err
	}

	// The tree of a partially explored or failing scenario is still rendered.
	return errors.Wrapf(runErr, "scenario %s", s.Name)
}

func writeTree(w io.Writer, graph []byte) error {
	if opts.OutputFormat() == "dot" {
		_, err := w.Write(graph)
		return errors.WithStack(err)
	}
	return dot.Render(w, opts.OutputFormat(), graph)
}

func writeTreeFile(path string, graph []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.WithStack(cerr)
		}
	}()
	return writeTree(f, graph)
}
