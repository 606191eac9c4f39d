// Package region implements the key-space partitions used to index symbolic
// collections. A region denotes a (possibly infinite) set of keys and can be
// compared with, intersected with and subtracted from regions of the same kind.
package region

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/symheap/utils"

	"github.com/fatih/color"
)

// Comparison is the verdict of comparing two regions.
type Comparison uint8

const (
	// Includes: the receiver contains every point of the argument.
	Includes Comparison = iota
	// Intersects: the regions share points, but the receiver does not contain
	// the argument.
	Intersects
	// Disjoint: the regions share no points.
	Disjoint
)

func (c Comparison) String() string {
	switch c {
	case Includes:
		return "Includes"
	case Intersects:
		return "Intersects"
	case Disjoint:
		return "Disjoint"
	}
	return fmt.Sprintf("Comparison(%d)", uint8(c))
}

// Region is implemented by value types denoting sets of keys. For all a, b:
//   - a.Subtract(b) is disjoint from b,
//   - a.Compare(a) is Includes, and an empty b is always included,
//   - a.Compare(b) is Disjoint exactly when a.Intersect(b) is empty.
type Region[R any] interface {
	fmt.Stringer

	IsEmpty() bool
	Compare(R) Comparison
	Subtract(R) R
	Intersect(R) R
	Union(R) R
}

var colorize = struct {
	Region func(...interface{}) string
	Point  func(...interface{}) string
}{
	Region: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
	Point: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite).SprintFunc())(is...)
	},
}

var (
	errMalformed = errors.New("malformed region")
	errInternal  = errors.New("internal error")
)

// Equal reports whether two regions denote the same set.
func Equal[R Region[R]](a, b R) bool {
	return a.Compare(b) == Includes && b.Compare(a) == Includes
}
