package memory

import (
	"testing"

	"github.com/cs-au-dk/symheap/analysis/collection"
	"github.com/cs-au-dk/symheap/analysis/expr"

	"github.com/stretchr/testify/assert"
)

func element(ref expr.Expr, idx int64) ArrayIndexLValue {
	return ArrayIndexLValue{Ref: ref, Index: expr.MkInt(idx), Type: "int[]", Sort: expr.IntSort}
}

// filled allocates an array whose element i is f(i).
func filled(mem Memory, n int64, f func(int64) int64) (Memory, *expr.Address) {
	mem, a := mem.AllocArray("int[]", expr.MkInt(n))
	for idx := int64(0); idx < n; idx++ {
		mem = mem.Write(element(a, idx), expr.MkInt(f(idx)), expr.True)
	}
	return mem, a
}

func readInts(t *testing.T, model expr.Model, mem Memory, ref expr.Expr, n int64) []int64 {
	t.Helper()
	res := make([]int64, n)
	for idx := range res {
		v, ok := expr.AsInt(model.Eval(mem.Read(element(ref, int64(idx)))))
		if !ok {
			t.Fatalf("%v[%d] is not an integer", ref, idx)
		}
		res[idx] = v
	}
	return res
}

func TestArrayLength(t *testing.T) {
	mem, a := New().AllocArray("int[]", expr.MkInt(3))
	assert.Equal(t, "3", mem.Read(ArrayLengthLValue{a, "int[]"}).String())
	assert.Equal(t, "0", mem.Read(ArrayLengthLValue{expr.MkAddr(9), "int[]"}).String())

	x := expr.MkSymbol("x", expr.AddrSort)
	assert.Equal(t, "length<int[]>I[x]", mem.Read(ArrayLengthLValue{x, "int[]"}).String())
}

func TestArrayCopy(t *testing.T) {
	mem := New()
	mem, src := filled(mem, 10, func(i int64) int64 { return 10 + i })
	mem, dst := filled(mem, 10, func(i int64) int64 { return -i })
	n := expr.MkSymbol("n", expr.IntSort)

	tests := []struct {
		name     string
		mem      Memory
		model    expr.Model
		ref      expr.Expr
		expected []int64
	}{
		{
			"concrete",
			mem.ArrayCopy("int[]", expr.IntSort, src, dst, expr.MkInt(2), expr.MkInt(5), expr.MkInt(3), expr.True),
			expr.NewModel(),
			dst,
			[]int64{0, -1, -2, -3, -4, 12, 13, 14, -8, -9},
		},
		{
			"overlapping",
			mem.ArrayCopy("int[]", expr.IntSort, src, src, expr.MkInt(0), expr.MkInt(1), expr.MkInt(4), expr.True),
			expr.NewModel(),
			src,
			[]int64{10, 10, 11, 12, 13, 15, 16, 17, 18, 19},
		},
		{
			"symbolic length",
			mem.ArrayCopy("int[]", expr.IntSort, src, dst, expr.MkInt(0), expr.MkInt(1), n, expr.True),
			expr.NewModel().WithConst("n", expr.MkInt(2)),
			dst,
			[]int64{0, 10, 11, -3, -4, -5, -6, -7, -8, -9},
		},
		{
			"empty",
			mem.ArrayCopy("int[]", expr.IntSort, src, dst, expr.MkInt(0), expr.MkInt(0), expr.MkInt(0), expr.True),
			expr.NewModel(),
			dst,
			[]int64{0, -1, -2, -3, -4, -5, -6, -7, -8, -9},
		},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, readInts(t, test.model, test.mem, test.ref, 10), test.name)
	}

	// The copy source is untouched.
	copied := tests[0].mem
	assert.Equal(t, []int64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, readInts(t, expr.NewModel(), copied, src, 10))
}

func TestArrayCopyShadowsDestination(t *testing.T) {
	mem := New()
	mem, src := filled(mem, 4, func(i int64) int64 { return i + 1 })
	mem, dst := filled(mem, 4, func(int64) int64 { return 0 })

	mem = mem.ArrayCopy("int[]", expr.IntSort, src, dst, expr.MkInt(0), expr.MkInt(0), expr.MkInt(4), expr.True)

	// A copy over a concrete window replaces the destination elements.
	updates := mem.Array("int[]", expr.IntSort).Array(dst.Value).Updates()
	assert.Equal(t, 1, updates.Size())
	assert.Equal(t, "1", mem.Read(element(dst, 0)).String())
}

func TestInputArrayCopy(t *testing.T) {
	x, y := expr.MkSymbol("x", expr.AddrSort), expr.MkSymbol("y", expr.AddrSort)
	name := collection.CollectionID{Kind: collection.Array, Type: "int[]", Sort: expr.IntSort, Ref: collection.Input}.Name()
	interp := &expr.ArrayInterp{Default: expr.MkInt(7)}
	for idx := int64(0); idx < 4; idx++ {
		interp.Entries = append(interp.Entries, expr.ArrayEntry{
			Args:  []expr.Expr{expr.MkAddr(-1), expr.MkInt(idx)},
			Value: expr.MkInt(100 + idx),
		})
	}

	mem := New().ArrayCopy("int[]", expr.IntSort, x, y, expr.MkInt(1), expr.MkInt(0), expr.MkInt(2), expr.True)

	tests := []struct {
		x, y     int
		expected []int64
	}{
		// y[0..1] = x[1..2]
		{-1, -2, []int64{101, 102, 7, 7}},
		// Copying an array into itself shifts it left.
		{-1, -1, []int64{101, 102, 102, 103}},
		{-2, -1, []int64{7, 7, 102, 103}},
	}

	for _, test := range tests {
		model := expr.NewModel().
			WithConst("x", expr.MkAddr(test.x)).
			WithConst("y", expr.MkAddr(test.y)).
			WithArray(name, interp)
		assert.Equal(t, test.expected, readInts(t, model, mem, y, 4), "x = #%d, y = #%d", test.x, test.y)
	}
}
