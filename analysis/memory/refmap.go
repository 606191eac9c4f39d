package memory

import (
	"github.com/cs-au-dk/symheap/analysis/collection"
	"github.com/cs-au-dk/symheap/analysis/expr"
)

// RefMapRegion stores the values of the reference-keyed maps of one type.
type RefMapRegion struct {
	partitions
}

func NewRefMapRegion(typ string, sort expr.Sort) RefMapRegion {
	return RefMapRegion{newPartitions(collection.RefMap, typ, sort)}
}

// Read returns the value mapRef binds to keyRef, or the default of the value
// sort if no write applies.
func (r RefMapRegion) Read(mapRef, keyRef expr.Expr) expr.Expr {
	return r.read(mapRef, keyRef)
}

func (r RefMapRegion) Write(mapRef, keyRef, value, guard expr.Expr) RefMapRegion {
	return RefMapRegion{r.write(mapRef, keyRef, value, guard)}
}

// Merge makes dst map every key in the key set of src to its value in src.
// Keys outside the key set keep their value in dst.
func (r RefMapRegion) Merge(src, dst expr.Expr, keys RefSetRegion, guard expr.Expr) RefMapRegion {
	return RefMapRegion{r.merge(src, dst, r.partitions, keys.partitions, guard)}
}

// Single is the collection of the allocated map at addr holding keys of
// the given partition.
func (r RefMapRegion) Single(key collection.Partition, addr int) singleMap {
	return r.single(key, addr)
}

// Shared is the collection of input maps holding keys of the given partition.
func (r RefMapRegion) Shared(key collection.Partition) sharedMap {
	return r.shared(key)
}

// RefSetRegion stores the key sets of the reference-keyed maps of one type.
type RefSetRegion struct {
	partitions
}

func NewRefSetRegion(typ string) RefSetRegion {
	return RefSetRegion{newPartitions(collection.RefSet, typ, expr.BoolSort)}
}

func (r RefSetRegion) Contains(mapRef, keyRef expr.Expr) expr.Expr {
	return r.read(mapRef, keyRef)
}

func (r RefSetRegion) Add(mapRef, keyRef, guard expr.Expr) RefSetRegion {
	return RefSetRegion{r.write(mapRef, keyRef, expr.True, guard)}
}

func (r RefSetRegion) Remove(mapRef, keyRef, guard expr.Expr) RefSetRegion {
	return RefSetRegion{r.write(mapRef, keyRef, expr.False, guard)}
}

// Union adds the keys of src to dst.
func (r RefSetRegion) Union(src, dst, guard expr.Expr) RefSetRegion {
	return RefSetRegion{r.merge(src, dst, r.partitions, r.partitions, guard)}
}

// ConcreteKeys lists the allocated keys that may belong to the allocated map
// at addr. The second result is false if the list may be incomplete.
func (r RefSetRegion) ConcreteKeys(addr int) ([]int, bool) {
	return listKeys(r.single(collection.Allocated, addr), func(k expr.Expr) expr.Expr { return k })
}

// InputAllocatedKeys lists the allocated keys that may belong to some input
// map.
func (r RefSetRegion) InputAllocatedKeys() ([]int, bool) {
	return listKeys(r.ia, func(k collection.Pair) expr.Expr { return k.Second })
}

func (r RefSetRegion) Single(key collection.Partition, addr int) singleMap {
	return r.single(key, addr)
}

func (r RefSetRegion) Shared(key collection.Partition) sharedMap {
	return r.shared(key)
}
