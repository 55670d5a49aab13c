package temporal

import (
	"github.com/cockroachdb/errors"
)

// Default pattern tables. Order is trial priority: the first entry that parses
// a value wins.
var (
	dateDMYPatterns = []string{
		"%d/%m/%Y",
		"%d-%m-%Y",
		"%d.%m.%Y",
	}
	dateYMDPatterns = []string{
		"%Y-%m-%d",
		"%Y/%m/%d",
		"%Y.%m.%d",
		"%Y%m%d",
	}
	datetimeDMYPatterns = []string{
		"%d/%m/%Y %H:%M:%S",
		"%d-%m-%Y %H:%M:%S",
		"%d.%m.%Y %H:%M:%S",
		"%d/%m/%Y %H:%M",
		"%d-%m-%Y %H:%M",
		"%d/%m/%Y %H:%M:%S%.f",
		"%d-%m-%Y %H:%M:%S%.f",
	}
	datetimeYMDPatterns = []string{
		"%Y-%m-%d %H:%M:%S",
		"%Y-%m-%dT%H:%M:%S",
		"%Y/%m/%d %H:%M:%S",
		"%Y-%m-%d %H:%M",
		"%Y-%m-%dT%H:%M",
		"%Y-%m-%d %H:%M:%S%.f",
		"%Y-%m-%dT%H:%M:%S%.f",
		"%Y%m%d %H:%M:%S",
	}
)

// DefaultPatterns returns a copy of the built-in templates for f.
func DefaultPatterns(f Family) []string {
	var src []string
	switch f {
	case DateDMY:
		src = dateDMYPatterns
	case DateYMD:
		src = dateYMDPatterns
	case DatetimeDMY:
		src = datetimeDMYPatterns
	case DatetimeYMD:
		src = datetimeYMDPatterns
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Catalog holds one ordered pattern sequence per family. A Catalog is
// immutable after construction and safe for concurrent use.
type Catalog struct {
	families [numFamilies][]Pattern
}

var defaultCatalog = mustDefaultCatalog()

func mustDefaultCatalog() *Catalog {
	c, err := NewCatalog(nil)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog { return defaultCatalog }

// NewCatalog compiles a catalog. Families absent from overrides use the
// built-in templates; a family present with an empty list is an error.
func NewCatalog(overrides map[Family][]string) (*Catalog, error) {
	c := &Catalog{}
	for f, texts := range overrides {
		if !f.Valid() {
			return nil, errors.Wrapf(ErrUnsupportedFamily, "%s", f)
		}
		if len(texts) == 0 {
			return nil, errors.Wrapf(ErrInvalidPattern, "%s: empty pattern list", f)
		}
	}
	for _, f := range detectionOrder {
		texts, ok := overrides[f]
		if !ok {
			texts = DefaultPatterns(f)
		}
		patterns := make([]Pattern, 0, len(texts))
		for _, text := range texts {
			p, err := CompilePattern(text)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", f)
			}
			if err := p.fitsFamily(f); err != nil {
				return nil, err
			}
			patterns = append(patterns, p)
		}
		c.families[f] = patterns
	}
	return c, nil
}

// Patterns returns the ordered patterns for f, or nil for an unknown family.
func (c *Catalog) Patterns(f Family) []Pattern {
	if !f.Valid() {
		return nil
	}
	out := make([]Pattern, len(c.families[f]))
	copy(out, c.families[f])
	return out
}

// Match returns the first pattern of f, in catalog order, that parses value.
func (c *Catalog) Match(f Family, value string) (Pattern, bool) {
	if !f.Valid() {
		return Pattern{}, false
	}
	for _, p := range c.families[f] {
		if p.Matches(value) {
			return p, true
		}
	}
	return Pattern{}, false
}
