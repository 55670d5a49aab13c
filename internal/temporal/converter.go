package temporal

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/errors"
)

// Stats counts how each Parse call was resolved.
type Stats struct {
	FastPath int64 // matched the latest successful pattern
	Rescans  int64 // matched another pattern after a catalog scan
	Misses   int64 // matched nothing
}

// Matched returns the number of values that parsed.
func (s Stats) Matched() int64 { return s.FastPath + s.Rescans }

// Converter parses values of one family, trying the most recently
// successful pattern first. A Converter is not safe for concurrent use; give
// each goroutine its own.
type Converter[T int32 | int64] struct {
	family   Family
	kind     transformKind
	patterns []Pattern
	latest   int
	stats    Stats
	mem      memory.Allocator
}

// NewDateConverter returns a day-count converter over the default catalog.
func NewDateConverter(f Family) (*Converter[int32], error) {
	return defaultCatalog.DateConverter(f)
}

// NewDatetimeConverter returns a microsecond converter over the default catalog.
func NewDatetimeConverter(f Family) (*Converter[int64], error) {
	return defaultCatalog.DatetimeConverter(f)
}

// DateConverter returns a day-count converter for a date family. Any other
// family yields ErrUnsupportedFamily.
func (c *Catalog) DateConverter(f Family) (*Converter[int32], error) {
	return newConverter[int32](c, f, dayCount)
}

// DatetimeConverter returns a microsecond converter for a datetime family.
// Any other family yields ErrUnsupportedFamily.
func (c *Catalog) DatetimeConverter(f Family) (*Converter[int64], error) {
	return newConverter[int64](c, f, microsecondTimestamp)
}

func newConverter[T int32 | int64](c *Catalog, f Family, want transformKind) (*Converter[T], error) {
	if !f.Valid() || f.transform() != want {
		return nil, errors.Wrapf(ErrUnsupportedFamily, "no %s transform for %s", want, f)
	}
	patterns := c.families[f]
	if len(patterns) == 0 {
		return nil, errors.Wrapf(ErrUnsupportedFamily, "no patterns for %s", f)
	}
	return &Converter[T]{
		family:   f,
		kind:     want,
		patterns: patterns,
		mem:      memory.DefaultAllocator,
	}, nil
}

// Family returns the family the converter was built for.
func (c *Converter[T]) Family() Family { return c.family }

// LogicalType returns the arrow type of converted columns.
func (c *Converter[T]) LogicalType() arrow.FixedWidthDataType { return c.family.LogicalType() }

// Latest returns the pattern that will be tried first on the next Parse.
func (c *Converter[T]) Latest() string { return c.patterns[c.latest].String() }

// Stats returns the parse counters accumulated so far.
func (c *Converter[T]) Stats() Stats { return c.stats }

// SetAllocator sets the allocator used for converted arrays.
func (c *Converter[T]) SetAllocator(mem memory.Allocator) { c.mem = mem }

// Parse converts one value. It tries the latest successful pattern, then the
// rest of the catalog in order, remembering whichever pattern succeeds. A
// value that matches nothing returns false and leaves the state untouched.
func (c *Converter[T]) Parse(value string) (T, bool) {
	if v, ok := c.patterns[c.latest].apply(value, c.kind); ok {
		c.stats.FastPath++
		return T(v), true
	}
	for i, p := range c.patterns {
		if i == c.latest {
			continue
		}
		if v, ok := p.apply(value, c.kind); ok {
			c.latest = i
			c.stats.Rescans++
			return T(v), true
		}
	}
	c.stats.Misses++
	return 0, false
}

// ParseRaw is Parse with the result widened to int64.
func (c *Converter[T]) ParseRaw(value string) (int64, bool) {
	v, ok := c.Parse(value)
	return int64(v), ok
}

// ColumnConverter is the width-independent view of a Converter, for callers
// that only know the family at run time.
type ColumnConverter interface {
	Family() Family
	LogicalType() arrow.FixedWidthDataType
	Latest() string
	Stats() Stats
	SetAllocator(mem memory.Allocator)
	ConvertColumn(values StringColumn) (arrow.Array, error)
	ConvertChunked(values *arrow.Chunked) (*arrow.Chunked, error)
	// ParseRaw is Parse with the result widened to int64.
	ParseRaw(value string) (int64, bool)
}

// NewConverter picks the day-count or microsecond converter for f.
func (c *Catalog) NewConverter(f Family) (ColumnConverter, error) {
	switch f.transform() {
	case dayCount:
		conv, err := c.DateConverter(f)
		if err != nil {
			return nil, err
		}
		return conv, nil
	case microsecondTimestamp:
		conv, err := c.DatetimeConverter(f)
		if err != nil {
			return nil, err
		}
		return conv, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFamily, "%s", f)
	}
}
