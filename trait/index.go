package trait

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate go tool stringer -type=IndexKind -trimprefix=Index -output=indexkind_string.go

// IndexKind distinguishes the three index forms of a resolution request.
type IndexKind uint8

const (
	// IndexAbsent means no index argument was given.
	IndexAbsent IndexKind = iota
	// IndexStatic is a specific, statically known index.
	IndexStatic
	// IndexUnbounded stands for any runtime index.
	IndexUnbounded
)

// Inf is the index value standing for "unbounded". Static(Inf) is Unbounded().
const Inf uint = math.MaxUint

// ErrInvalidIndex is returned by ParseIndex.
var ErrInvalidIndex = errors.New("invalid index")

// Index is a comparable index-kind value.
type Index struct {
	Kind  IndexKind
	Value uint
}

// Static returns a static index. Inf maps to Unbounded.
func Static(i uint) Index {
	if i == Inf {
		return Unbounded()
	}

	return Index{Kind: IndexStatic, Value: i}
}

// Unbounded returns the dynamic-index tag.
func Unbounded() Index {
	return Index{Kind: IndexUnbounded, Value: Inf}
}

// Absent returns the no-index form.
func Absent() Index {
	return Index{Kind: IndexAbsent}
}

// IsStatic reports whether i names one specific index.
func (i Index) IsStatic() bool {
	return i.Kind == IndexStatic
}

func (i Index) String() string {
	switch i.Kind {
	case IndexStatic:
		return strconv.FormatUint(uint64(i.Value), 10)
	case IndexUnbounded:
		return "*"
	default:
		return "none"
	}
}

// ParseIndex parses the textual index forms used by mapping files and the CLI:
// "" and "none" are Absent, "*", "inf" and "unbounded" are Unbounded, a
// non-negative integer is Static.
func ParseIndex(s string) (Index, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return Absent(), nil
	case "*", "inf", "unbounded":
		return Unbounded(), nil
	}

	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil {
		return Index{}, errors.Wrapf(ErrInvalidIndex, "%q", s)
	}

	return Static(uint(v)), nil
}
