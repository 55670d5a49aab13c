package temporal

import (
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	fieldYear uint8 = 1 << iota
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
	fieldSecond
)

const (
	dateFields     = fieldYear | fieldMonth | fieldDay
	timeFields     = fieldHour | fieldMinute | fieldSecond
	datetimeFields = dateFields | fieldHour | fieldMinute
)

type directive struct {
	layout string
	fields uint8
}

// Numeric fields map to the non-padded Go layout elements so that "1" and
// "01" are both accepted, matching strftime parsing.
var directives = map[byte]directive{
	'Y': {"2006", fieldYear},
	'y': {"06", fieldYear},
	'm': {"1", fieldMonth},
	'd': {"2", fieldDay},
	'e': {"_2", fieldDay},
	'H': {"15", fieldHour},
	'M': {"4", fieldMinute},
	'S': {"5", fieldSecond},
	'F': {"2006-1-2", dateFields},
	'T': {"15:4:5", timeFields},
}

const fractionLayout = ".999999999"

// Pattern is a compiled strftime-style template such as "%d/%m/%Y".
type Pattern struct {
	text     string
	layout   string
	fields   uint8
	fraction bool // template has %.f
}

// String returns the template the pattern was compiled from.
func (p Pattern) String() string { return p.text }

// Layout returns the Go reference layout used for parsing.
func (p Pattern) Layout() string { return p.layout }

// CompilePattern translates a strftime-style template into a Go layout.
// Literal text is limited to spaces and the separators / - . : , T.
func CompilePattern(text string) (Pattern, error) {
	if text == "" {
		return Pattern{}, errors.Wrap(ErrInvalidPattern, "empty pattern")
	}
	var b strings.Builder
	var fields uint8
	var last byte
	var fraction bool
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '%' {
			if !isLiteral(c) {
				return Pattern{}, errors.Wrapf(ErrInvalidPattern, "%q: unsupported literal %q", text, c)
			}
			b.WriteByte(c)
			last = 0
			continue
		}
		i++
		if i >= len(text) {
			return Pattern{}, errors.Wrapf(ErrInvalidPattern, "%q: trailing %%", text)
		}
		switch c = text[i]; c {
		case '%':
			b.WriteByte('%')
			last = 0
		case '.':
			if i+1 >= len(text) || text[i+1] != 'f' {
				return Pattern{}, errors.Wrapf(ErrInvalidPattern, "%q: expected %%.f", text)
			}
			i++
			if last != 'S' && last != 'T' {
				return Pattern{}, errors.Wrapf(ErrInvalidPattern, "%q: %%.f must follow seconds", text)
			}
			b.WriteString(fractionLayout)
			fraction = true
			last = 'f'
		default:
			d, ok := directives[c]
			if !ok {
				return Pattern{}, errors.Wrapf(ErrInvalidPattern, "%q: unsupported directive %%%c", text, c)
			}
			if fields&d.fields != 0 {
				return Pattern{}, errors.Wrapf(ErrInvalidPattern, "%q: field repeated by %%%c", text, c)
			}
			// "1" followed by "5" would read back as the hour element.
			if strings.HasSuffix(b.String(), "1") && strings.HasPrefix(d.layout, "5") {
				return Pattern{}, errors.Wrapf(ErrInvalidPattern, "%q: %%m cannot directly precede %%S", text)
			}
			fields |= d.fields
			b.WriteString(d.layout)
			last = c
		}
	}
	return Pattern{text: text, layout: b.String(), fields: fields, fraction: fraction}, nil
}

// MustCompilePattern is like CompilePattern but panics on error. It is meant
// for package-level tables.
func MustCompilePattern(text string) Pattern {
	p, err := CompilePattern(text)
	if err != nil {
		panic(err)
	}
	return p
}

func isLiteral(c byte) bool {
	switch c {
	case ' ', '/', '-', '.', ':', ',', 'T':
		return true
	}
	return false
}

// fitsFamily checks that the pattern carries exactly the components the
// family's transform needs.
func (p Pattern) fitsFamily(f Family) error {
	switch f.transform() {
	case dayCount:
		if p.fields&dateFields != dateFields || p.fields&timeFields != 0 {
			return errors.Wrapf(ErrInvalidPattern, "%q: %s patterns need year, month and day only", p.text, f)
		}
	case microsecondTimestamp:
		if p.fields&datetimeFields != datetimeFields {
			return errors.Wrapf(ErrInvalidPattern, "%q: %s patterns need year, month, day, hour and minute", p.text, f)
		}
	default:
		return errors.Wrapf(ErrUnsupportedFamily, "%s", f)
	}
	return nil
}
