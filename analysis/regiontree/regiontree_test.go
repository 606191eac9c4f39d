package regiontree

import (
	"bytes"
	"math/rand"
	"os"
	"testing"

	"github.com/cs-au-dk/symheap/analysis/region"
	"github.com/cs-au-dk/symheap/utils"

	"github.com/benbjohnson/immutable"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tree = RegionTree[string, region.Intervals[int]]

func TestMain(m *testing.M) {
	utils.FlagSet().Set("no-colorize", "true")
	utils.FlagSet().Set("check-trees", "true")
	os.Exit(m.Run())
}

type write struct {
	reg   region.Intervals[int]
	value string
}

func randomWrite(rnd *rand.Rand, n int) write {
	lo := rnd.Intn(20)
	hi := lo + rnd.Intn(6)
	return write{region.Closed(lo, hi), string(rune('a' + n%26))}
}

// newest returns the value of the newest write covering p.
func newest(log []write, p int) (string, bool) {
	for idx := len(log) - 1; idx >= 0; idx-- {
		if log[idx].reg.Contains(p) {
			return log[idx].value, true
		}
	}
	return "", false
}

// lastVisited returns the value visited last by ForEach among the entries
// containing p.
func lastVisited(t tree, p int) (res string, found bool) {
	t.ForEach(func(v string, r region.Intervals[int]) {
		if r.Contains(p) {
			res, found = v, true
		}
	})
	return
}

func TestWriteShadowing(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for iter := 0; iter < 50; iter++ {
		tr := Empty[string, region.Intervals[int]]()
		log := []write{}
		for n := 0; n < 30; n++ {
			w := randomWrite(rnd, n)
			log = append(log, w)
			tr = tr.Write(w.reg, w.value, nil)
			tr.CheckInvariant()
		}

		for p := -1; p < 27; p++ {
			expected, expectedFound := newest(log, p)
			got, found := lastVisited(tr, p)
			if found != expectedFound || got != expected {
				t.Fatalf("point %d: got %q (%v), expected %q (%v) in\n%v", p, got, found, expected, expectedFound, tr)
			}
		}

		if tr.Size() < len(tr.Entries()) {
			t.Errorf("Size() = %d is smaller than the number of top-level entries", tr.Size())
		}
	}
}

func TestLocalizeRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	tr := Empty[string, region.Intervals[int]]()
	for n := 0; n < 20; n++ {
		w := randomWrite(rnd, n)
		tr = tr.Write(w.reg, w.value, nil)

		local := tr.Localize(w.reg)
		es := local.Entries()
		require.Len(t, es, 1)
		assert.True(t, region.Equal(es[0].Region, w.reg))
		assert.Equal(t, w.value, es[0].Value)
	}
}

func TestLocalizeIsInside(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	tr := Empty[string, region.Intervals[int]]()
	for n := 0; n < 20; n++ {
		w := randomWrite(rnd, n)
		tr = tr.Write(w.reg, w.value, nil)
	}

	reg := region.Closed(4, 9)
	local := tr.Localize(reg)
	local.CheckInvariant()
	local.ForEach(func(_ string, r region.Intervals[int]) {
		if reg.Compare(r) != region.Includes {
			t.Errorf("Localized entry %v escapes %v", r, reg)
		}
	})

	for p := 4; p <= 9; p++ {
		a, aok := lastVisited(tr, p)
		b, bok := lastVisited(local, p)
		if a != b || aok != bok {
			t.Errorf("point %d: localized value %q differs from %q", p, b, a)
		}
	}
}

func TestPersistence(t *testing.T) {
	t1 := Empty[string, region.Intervals[int]]().
		Write(region.Closed(0, 10), "a", nil).
		Write(region.Closed(5, 15), "b", nil)

	reg := region.Closed(3, 8)
	before := t1.Localize(reg).String()
	t2 := t1.Write(reg, "c", nil)
	after := t1.Localize(reg).String()

	assert.Equal(t, before, after)
	assert.NotEqual(t, t1.String(), t2.String())
	assert.Equal(t, 2, len(t1.Entries()))
}

func TestWriteSharesDisjointEntries(t *testing.T) {
	t1 := Empty[string, region.Intervals[int]]().
		Write(region.Closed(0, 2), "a", nil).
		Write(region.Closed(10, 12), "b", nil)
	t2 := t1.Write(region.Closed(20, 30), "c", nil)

	assert.Same(t, t1.Entries()[0], t2.Entries()[0])
	assert.Same(t, t1.Entries()[1], t2.Entries()[1])
	assert.NotSame(t, t1.Identity(), t2.Identity())
}

func TestEmptyWrite(t *testing.T) {
	t1 := Empty[string, region.Intervals[int]]().Write(region.Closed(0, 2), "a", nil)
	t2 := t1.Write(region.NoIntervals[int](), "b", nil)
	assert.Same(t, t1.Identity(), t2.Identity())
}

func TestFilter(t *testing.T) {
	tr := Empty[string, region.Intervals[int]]().
		Write(region.Closed(0, 10), "x", nil).
		Write(region.Closed(2, 4), "y", nil).
		Write(region.Closed(3, 3), "x", nil)

	isX := func(v string) bool { return v == "x" }
	tr = tr.Write(region.Closed(0, 5), "z", isX)
	tr.CheckInvariant()

	local := tr.Localize(region.Closed(0, 5))
	local.ForEach(func(v string, r region.Intervals[int]) {
		if v == "x" {
			t.Errorf("Entry %v ↦ x survived the filter", r)
		}
	})

	// The y entry outside the shadowed x is kept.
	found := false
	local.ForEach(func(v string, r region.Intervals[int]) {
		found = found || v == "y" && r.Contains(2)
	})
	assert.True(t, found, "expected y to remain under z in\n%v", tr)

	// Outside the written region the filter has no effect.
	v, ok := lastVisited(tr, 7)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestCheckInvariantPanics(t *testing.T) {
	overlapping := immutable.NewList[*Entry[string, region.Intervals[int]]]().
		Append(&Entry[string, region.Intervals[int]]{Region: region.Closed(0, 5), Value: "a"}).
		Append(&Entry[string, region.Intervals[int]]{Region: region.Closed(3, 8), Value: "b"})
	assert.Panics(t, func() { tree{overlapping}.CheckInvariant() })

	child := immutable.NewList[*Entry[string, region.Intervals[int]]]().
		Append(&Entry[string, region.Intervals[int]]{Region: region.Closed(0, 20), Value: "a"})
	escaping := immutable.NewList[*Entry[string, region.Intervals[int]]]().
		Append(&Entry[string, region.Intervals[int]]{Region: region.Closed(0, 5), Value: "b", Children: tree{child}})
	assert.Panics(t, func() { tree{escaping}.CheckInvariant() })
}

func TestString(t *testing.T) {
	tr := Empty[string, region.Intervals[int]]().
		Write(region.Closed(0, 10), "a", nil).
		Write(region.Closed(5, 15), "b", nil).
		Write(region.Point(7), "c", nil)

	g := goldie.New(t)
	g.Assert(t, "three-writes", []byte(tr.String()))
	g.Assert(t, "covering-write", []byte(tr.Write(region.Closed(0, 20), "d", nil).String()))
	assert.Equal(t, "{}", Empty[string, region.Intervals[int]]().String())
}

func TestDot(t *testing.T) {
	tr := Empty[string, region.Intervals[int]]().
		Write(region.Closed(0, 10), "a", nil).
		Write(region.Closed(0, 20), "b", nil).
		Write(region.Closed(30, 40), "c", nil)

	g := tr.Dot("tree")
	assert.Equal(t, 4, g.NodeCount())
	assert.Len(t, g.Clusters, 2)

	var buf bytes.Buffer
	require.NoError(t, g.WriteDot(&buf))
	out := buf.String()
	for _, expected := range []string{
		`"root" -> "e0"`,
		`"e0" -> "e1"`,
		`"root" -> "e2"`,
		`subgraph "cluster_0"`,
		`label="[0, 20] ↦ b";`,
	} {
		assert.Contains(t, out, expected)
	}
}
