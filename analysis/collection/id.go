package collection

import (
	"fmt"
	"strings"

	"github.com/cs-au-dk/symheap/analysis/expr"
)

// Kind is the kind of heap location a collection stores.
type Kind uint8

const (
	Field Kind = iota
	Array
	ArrayLength
	RefMap
	RefSet
)

func (k Kind) String() string {
	switch k {
	case Field:
		return "field"
	case Array:
		return "array"
	case ArrayLength:
		return "length"
	case RefMap:
		return "map"
	case RefSet:
		return "keys"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Partition tells whether references are allocated during execution or
// originate from the program input. Allocated references are concrete
// addresses from 1 upward. Input references are symbolic, the null address,
// or concrete addresses chosen by a model, which are never positive.
type Partition uint8

const (
	Allocated Partition = iota
	Input
)

func (p Partition) String() string {
	if p == Allocated {
		return "A"
	}
	return "I"
}

// PartitionOf classifies a reference. Only positive concrete addresses are
// allocated.
func PartitionOf(ref expr.Expr) Partition {
	if a, ok := expr.AsAddress(ref); ok && a > 0 {
		return Allocated
	}
	return Input
}

// CollectionID names a collection. Ref is the partition of the owning object
// or map reference and Key the partition of the keys of reference-keyed
// collections. Addr binds the collection to one allocated owner; it is 0
// for collections spanning all owners of a partition.
type CollectionID struct {
	Kind Kind
	Type string
	Sort expr.Sort
	Ref  Partition
	Key  Partition
	Addr int
}

// IsInput reports whether the never-written content of the collection is
// part of the program input. Everything else starts at the default value of
// its sort.
func (id CollectionID) IsInput() bool {
	switch id.Kind {
	case RefMap, RefSet:
		return id.Ref == Input && id.Key == Input
	}
	return id.Ref == Input
}

// Name is the solver-level name of the collection.
func (id CollectionID) Name() string {
	var sb strings.Builder
	sb.WriteString(id.Kind.String())
	sb.WriteString("<" + id.Type + ">")
	sb.WriteString(id.Ref.String())
	if id.Kind == RefMap || id.Kind == RefSet {
		sb.WriteString(id.Key.String())
	}
	if id.Addr != 0 {
		fmt.Fprintf(&sb, "#%d", id.Addr)
	}
	return sb.String()
}

func (id CollectionID) String() string {
	return id.Name() + ": " + id.Sort.String()
}
