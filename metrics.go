package main

import (
	"fmt"
	"io"

	"github.com/cs-au-dk/symheap/scenario"
	"github.com/cs-au-dk/symheap/utils/metrics"
)

// gatherMetrics prints a summary of the scenario runs followed by the
// collection metrics. It prints nothing unless metrics were requested.
func gatherMetrics(w io.Writer, reports []*scenario.Report) error {
	if !opts.Metrics() || len(reports) == 0 {
		return nil
	}

	msg := "================ Results =====================\n\n"
	paths, explored, pending, failures := 0, 0, 0, 0
	for _, r := range reports {
		msg += fmt.Sprintf("Scenario: %s\n", r.Scenario)
		msg += fmt.Sprintf("Paths: %d, explored states: %d, pending states: %d\n", len(r.Paths), r.Explored, r.Pending)
		if n := r.Failures(); n > 0 {
			msg += fmt.Sprintf("Failed expectations: %d\n", n)
		}
		msg += "\n"

		paths += len(r.Paths)
		explored += r.Explored
		pending += r.Pending
		failures += r.Failures()
	}

	msg += fmt.Sprintf("Total: %d scenarios, %d paths, %d explored states, %d pending states, %d failed expectations\n\n",
		len(reports), paths, explored, pending, failures)

	if _, err := fmt.Fprint(w, msg); err != nil {
		return err
	}
	return metrics.Report(w)
}
