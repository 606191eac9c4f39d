// Package model decodes symbolic heap collections under a solver model into
// read-only concrete views.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/utils"
	"github.com/cs-au-dk/symheap/utils/metrics"
	"github.com/cs-au-dk/symheap/utils/tree"
)

var (
	errNotAddress = errors.New("reference is not an address under the model")
	errArity      = errors.New("arity mismatch")

	errInputAllocated = errors.New("input reference denotes an allocated address")
)

// Region is a decoded collection. Keys must be concrete.
type Region interface {
	Read(key ...expr.Expr) expr.Expr
}

// Key is a tuple of concrete key arguments.
type Key []expr.Expr

func (k Key) String() string {
	strs := make([]string, len(k))
	for i, a := range k {
		strs[i] = a.String()
	}
	return "(" + strings.Join(strs, ", ") + ")"
}

type keyHasher struct{}

func (keyHasher) Hash(k Key) uint32 {
	hs := make([]uint32, len(k))
	for i, a := range k {
		hs[i] = a.Hash()
	}
	return utils.HashCombine(hs...)
}

func (keyHasher) Equal(a, b Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// EagerRegion is a region materialized at decode time: finitely many points
// over a default value.
type EagerRegion struct {
	arity   int
	entries tree.Tree[Key, expr.Expr]
	def     expr.Expr
}

func NewEagerRegion(arity int, def expr.Expr) EagerRegion {
	return EagerRegion{arity, tree.NewTree[Key, expr.Expr](keyHasher{}), def}
}

// With binds key to value.
func (r EagerRegion) With(value expr.Expr, key ...expr.Expr) EagerRegion {
	r.check(key)
	r.entries = r.entries.Insert(Key(key), value)
	return r
}

func (r EagerRegion) check(key []expr.Expr) {
	if len(key) != r.arity {
		panic(fmt.Errorf("%w: %v has %d arguments, expected %d", errArity, Key(key), len(key), r.arity))
	}
}

func (r EagerRegion) Read(key ...expr.Expr) expr.Expr {
	r.check(key)
	if v, found := r.entries.Lookup(Key(key)); found {
		return v
	}
	return r.def
}

// Size is the number of materialized points.
func (r EagerRegion) Size() int {
	return r.entries.Size()
}

func (r EagerRegion) String() string {
	return r.entries.String() + " else " + r.def.String()
}

// LazyRegion decodes its content on the first read and keeps the result.
type LazyRegion struct {
	decode  func() Region
	decoded Region
	done    bool
}

func NewLazyRegion(decode func() Region) *LazyRegion {
	return &LazyRegion{decode: decode}
}

// Decoded reports whether the region has been decoded.
func (r *LazyRegion) Decoded() bool {
	return r.done
}

func (r *LazyRegion) Read(key ...expr.Expr) expr.Expr {
	if !r.done {
		metrics.LazyDecodes.Inc()
		r.decoded = r.decode()
		r.done = true
		r.decode = nil
	}
	return r.decoded.Read(key...)
}

// arrayRegion reads a translated collection by evaluating it under the
// model. Evaluated points are remembered.
type arrayRegion struct {
	model expr.Model
	array expr.Expr
	cache tree.Tree[Key, expr.Expr]
}

func (r *arrayRegion) Read(key ...expr.Expr) expr.Expr {
	if v, found := r.cache.Lookup(Key(key)); found {
		return v
	}

	v := r.model.Eval(expr.MkSelect(r.array, key...))
	r.cache = r.cache.Insert(Key(key), v)
	return v
}

// Size is the number of evaluated points.
func (r *arrayRegion) Size() int {
	return r.cache.Size()
}
