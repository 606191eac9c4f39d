package memory

import (
	"math/rand"
	"os"
	"testing"

	"github.com/cs-au-dk/symheap/analysis/collection"
	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/utils"
	"github.com/cs-au-dk/symheap/utils/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.FlagSet().Set("no-colorize", "true")
	utils.FlagSet().Set("check-trees", "true")
	os.Exit(m.Run())
}

func mapEntry(m, k expr.Expr) RefMapLValue {
	return RefMapLValue{Map: m, Key: k, Type: "Map", Sort: expr.StringSort}
}

func TestConcreteMapWriteRead(t *testing.T) {
	mem := New()
	m, k, other := expr.MkAddr(5), expr.MkAddr(7), expr.MkAddr(8)

	mem = mem.Write(mapEntry(m, k), expr.MkStr("V"), expr.True)

	assert.Equal(t, `"V"`, mem.Read(mapEntry(m, k)).String())
	assert.Equal(t, `""`, mem.Read(mapEntry(m, other)).String())
	assert.True(t, expr.IsTrue(mem.Read(RefSetLValue{m, k, "Map"})))
	assert.True(t, expr.IsFalse(mem.Read(RefSetLValue{m, other, "Map"})))
}

func TestMergeSoundness(t *testing.T) {
	mem := New()
	src, dst := expr.MkAddr(1), expr.MkAddr(2)
	k3, k4, k5 := expr.MkAddr(3), expr.MkAddr(4), expr.MkAddr(5)

	mem = mem.Write(mapEntry(src, k3), expr.MkStr("a"), expr.True)
	mem = mem.Write(mapEntry(src, k4), expr.MkStr("b"), expr.True)
	mem = mem.Write(mapEntry(dst, k3), expr.MkStr("z"), expr.True)
	mem = mem.Write(mapEntry(dst, k5), expr.MkStr("c"), expr.True)

	merged := mem.MapMerge(src, dst, "Map", expr.StringSort, expr.True)

	tests := []struct {
		key      expr.Expr
		expected string
	}{
		{k3, `"a"`},
		{k4, `"b"`},
		{k5, `"c"`},
		{expr.MkAddr(6), `""`},
	}
	for _, test := range tests {
		if got := merged.Read(mapEntry(dst, test.key)).String(); got != test.expected {
			t.Errorf("dst[%v] = %s, expected %s", test.key, got, test.expected)
		}
	}

	for _, k := range []expr.Expr{k3, k4, k5} {
		assert.True(t, expr.IsTrue(merged.Read(RefSetLValue{dst, k, "Map"})), "%v ∈ keys(dst)", k)
	}

	// The source and the unmerged memory are untouched.
	assert.Equal(t, `"z"`, mem.Read(mapEntry(dst, k3)).String())
	assert.Equal(t, `"a"`, merged.Read(mapEntry(src, k3)).String())
}

func TestMergeOnlyListedKeys(t *testing.T) {
	mem := New()
	src, dst := expr.MkAddr(1), expr.MkAddr(2)
	k3, k4 := expr.MkAddr(3), expr.MkAddr(4)

	mem = mem.Write(mapEntry(src, k3), expr.MkStr("a"), expr.True)
	mem = mem.Write(mapEntry(src, k4), expr.MkStr("b"), expr.True)
	mem = mem.Write(RefSetLValue{src, k4, "Map"}, expr.False, expr.True)
	mem = mem.Write(mapEntry(dst, k4), expr.MkStr("d"), expr.True)

	merged := mem.MapMerge(src, dst, "Map", expr.StringSort, expr.True)
	assert.Equal(t, `"a"`, merged.Read(mapEntry(dst, k3)).String())
	assert.Equal(t, `"d"`, merged.Read(mapEntry(dst, k4)).String())

	keys, ok := merged.RefSet("Map").ConcreteKeys(2)
	require.True(t, ok)
	assert.Equal(t, []int{3, 4}, keys)
}

func TestRoute(t *testing.T) {
	x, y := expr.MkSymbol("x", expr.AddrSort), expr.MkSymbol("y", expr.AddrSort)
	A, I := collection.Allocated, collection.Input

	tests := []struct {
		m, k   expr.Expr
		mp, kp collection.Partition
	}{
		{expr.MkAddr(1), expr.MkAddr(2), A, A},
		{expr.MkAddr(1), x, A, I},
		{x, expr.MkAddr(2), I, A},
		{x, y, I, I},
		{expr.Null, expr.MkAddr(3), I, A},
		{expr.MkAddr(-1), expr.Null, I, I},
	}

	for _, test := range tests {
		mp, kp := Route(test.m, test.k)
		if mp != test.mp || kp != test.kp {
			t.Errorf("Route(%v, %v) = %v%v, expected %v%v", test.m, test.k, mp, kp, test.mp, test.kp)
			continue
		}

		// The write lands in exactly the routed partition.
		r := NewRefMapRegion("Map", expr.IntSort).Write(test.m, test.k, expr.MkInt(1), expr.True)
		nonEmpty := map[string]bool{
			"AA": r.aa.Len() > 0,
			"AI": r.ai.Len() > 0,
			"IA": !r.ia.IsEmpty(),
			"II": !r.ii.IsEmpty(),
		}
		for label, written := range nonEmpty {
			if expected := label == mp.String()+kp.String(); written != expected {
				t.Errorf("write at (%v, %v): partition %s written = %v", test.m, test.k, label, written)
			}
		}
	}
}

type naivePair struct{ m, k int }

// naiveHeap evaluates map operations on concrete addresses.
type naiveHeap struct {
	values map[naivePair]int64
	keys   map[naivePair]bool
}

func (h naiveHeap) write(m, k int, v int64) {
	h.values[naivePair{m, k}] = v
	h.keys[naivePair{m, k}] = true
}

func (h naiveHeap) merge(src, dst int) {
	if src == dst {
		return
	}
	for p, present := range h.keys {
		if p.m == src && present {
			h.values[naivePair{dst, p.k}] = h.values[p]
			h.keys[naivePair{dst, p.k}] = true
		}
	}
}

type mapOp struct {
	merge       bool
	m, k, other expr.Expr
	value       int64
}

func TestMapAgreesWithNaiveHeap(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	s, d := expr.MkSymbol("s", expr.AddrSort), expr.MkSymbol("d", expr.AddrSort)
	x, y := expr.MkSymbol("x", expr.AddrSort), expr.MkSymbol("y", expr.AddrSort)
	p := expr.MkSymbol("p", expr.BoolSort)

	maps := []expr.Expr{expr.MkAddr(1), expr.MkAddr(2), s, d, expr.MkIte(p, expr.MkAddr(2), d)}
	keys := []expr.Expr{expr.MkAddr(3), expr.MkAddr(4), x, y, expr.MkIte(p, x, expr.MkAddr(3))}
	inputs := []int{0, -1, -2}

	for iter := 0; iter < 30; iter++ {
		ops := []mapOp{}
		mem := New()
		for n := 0; n < 6; n++ {
			op := mapOp{
				merge: rnd.Intn(3) == 0,
				m:     maps[rnd.Intn(len(maps))],
				k:     keys[rnd.Intn(len(keys))],
				other: maps[rnd.Intn(len(maps))],
				value: int64(n + 1),
			}
			ops = append(ops, op)
			if op.merge {
				mem = mem.MapMerge(op.other, op.m, "Map", expr.IntSort, expr.True)
			} else {
				lv := RefMapLValue{Map: op.m, Key: op.k, Type: "Map", Sort: expr.IntSort}
				mem = mem.Write(lv, expr.MkInt(op.value), expr.True)
			}
		}

		for trial := 0; trial < 8; trial++ {
			model := expr.NewModel().WithConst("p", expr.MkBool(rnd.Intn(2) == 0))
			for _, sym := range []string{"s", "d", "x", "y"} {
				model = model.WithConst(sym, expr.MkAddr(inputs[rnd.Intn(len(inputs))]))
			}
			addr := func(e expr.Expr) int {
				a, ok := expr.AsAddress(model.Eval(e))
				require.True(t, ok)
				return a
			}

			heap := naiveHeap{map[naivePair]int64{}, map[naivePair]bool{}}
			for _, op := range ops {
				if op.merge {
					heap.merge(addr(op.other), addr(op.m))
				} else {
					heap.write(addr(op.m), addr(op.k), op.value)
				}
			}

			for _, m := range maps {
				for _, k := range keys {
					lv := RefMapLValue{Map: m, Key: k, Type: "Map", Sort: expr.IntSort}
					got, _ := expr.AsInt(model.Eval(mem.Read(lv)))
					expected := heap.values[naivePair{addr(m), addr(k)}]
					if got != expected {
						t.Fatalf("%v under %v: got %d, expected %d\nops: %v\nheap: %v",
							lv, model, got, expected, ops, mem)
					}

					member := model.EvalBool(mem.Read(RefSetLValue{m, k, "Map"}))
					if member != heap.keys[naivePair{addr(m), addr(k)}] {
						t.Fatalf("%v ∈ keys(%v) under %v = %v", k, m, model, member)
					}
				}
			}
		}
	}
}

func TestSymbolicMerge(t *testing.T) {
	mem := New()
	s, d := expr.MkSymbol("s", expr.AddrSort), expr.MkSymbol("d", expr.AddrSort)
	mem = mem.Write(mapEntry(s, expr.MkAddr(3)), expr.MkStr("a"), expr.True)

	// Merging a symbolic map into another lists the allocated keys of the
	// source instead of deferring to it.
	before := testutil.ToFloat64(metrics.Merges.WithLabelValues("SS"))
	merged := mem.MapMerge(s, d, "Map", expr.StringSort, expr.True)
	// One merge for the values, one for the key set.
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.Merges.WithLabelValues("SS")))

	ia := merged.RefMap("Map", expr.StringSort).Shared(collection.Allocated)
	ia.Updates().ForEach(func(u collection.UpdateNode[collection.Pair], _ pairRegion) {
		if _, ok := u.(*collection.PinpointUpdate[collection.Pair]); !ok {
			t.Errorf("unexpected deferred update %v", u)
		}
	})

	// Input keys can only be deferred.
	mem = mem.Write(mapEntry(s, expr.MkSymbol("x", expr.AddrSort)), expr.MkStr("b"), expr.True)
	merged = mem.MapMerge(s, d, "Map", expr.StringSort, expr.True)
	ii := merged.RefMap("Map", expr.StringSort).Shared(collection.Input)
	ranged := 0
	ii.Updates().ForEach(func(u collection.UpdateNode[collection.Pair], _ pairRegion) {
		if _, ok := u.(*collection.RangedUpdate[collection.Pair]); ok {
			ranged++
		}
	})
	assert.Equal(t, 1, ranged)
}
