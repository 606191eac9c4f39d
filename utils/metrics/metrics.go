package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "symheap"

var (
	// CollectionWrites counts guarded writes per concreteness partition.
	CollectionWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collection_writes_total",
		Help:      "Guarded writes into symbolic collections, by partition.",
	}, []string{"partition"})

	// Merges counts map merges per (source, destination) concreteness pair.
	Merges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "merges_total",
		Help:      "Ref-map merges, by source and destination concreteness.",
	}, []string{"pair"})

	// TranslatorCache counts lookups in the identity-keyed translation caches.
	TranslatorCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "translator_cache_total",
		Help:      "Translator cache lookups, by result.",
	}, []string{"result"})

	// LazyDecodes counts lazy model regions that were materialized.
	LazyDecodes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lazy_model_decodes_total",
		Help:      "Lazy model regions decoded on first read.",
	})

	// Forks counts exploration forks.
	Forks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forks_total",
		Help:      "Exploration state forks.",
	})
)

// Registry holds every symheap collector.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(CollectionWrites, Merges, TranslatorCache, LazyDecodes, Forks)
}

// Report writes a plain text summary of all non-zero counters.
func Report(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return err
	}

	lines := []string{}
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			if v := m.GetCounter().GetValue(); v != 0 {
				lines = append(lines, fmt.Sprintf("%s%s %v", fam.GetName(), labels(m), v))
			}
		}
	}
	sort.Strings(lines)

	fmt.Fprintln(w, "================ Metrics =====================")
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func labels(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}
	str := "{"
	for i, l := range m.GetLabel() {
		if i > 0 {
			str += ","
		}
		str += l.GetName() + "=" + l.GetValue()
	}
	return str + "}"
}
