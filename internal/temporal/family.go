// Package temporal detects which date/datetime pattern family a string column
// uses and converts the column into arrow date32 or timestamp[us] arrays.
package temporal

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// Family identifies a group of concrete patterns sharing a component order and
// an output logical type.
type Family uint8

const (
	DateDMY Family = iota
	DateYMD
	DatetimeDMY
	DatetimeYMD

	numFamilies
)

// detectionOrder is the fixed priority used by Detect: dates before datetimes,
// day-first before year-first.
var detectionOrder = [numFamilies]Family{DateDMY, DateYMD, DatetimeDMY, DatetimeYMD}

// AllFamilies lists the families in detection order.
func AllFamilies() []Family {
	out := make([]Family, len(detectionOrder))
	copy(out, detectionOrder[:])
	return out
}

var familyNames = [numFamilies]string{
	DateDMY:     "date-dmy",
	DateYMD:     "date-ymd",
	DatetimeDMY: "datetime-dmy",
	DatetimeYMD: "datetime-ymd",
}

func (f Family) String() string {
	if !f.Valid() {
		return fmt.Sprintf("family(%d)", uint8(f))
	}
	return familyNames[f]
}

// Valid reports whether f is one of the four defined families.
func (f Family) Valid() bool { return f < numFamilies }

// IsDate reports whether f produces day-counts.
func (f Family) IsDate() bool { return f == DateDMY || f == DateYMD }

// ParseFamily resolves a family name as printed by String.
func ParseFamily(s string) (Family, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, n := range familyNames {
		if n == name {
			return Family(f), nil
		}
	}
	return 0, fmt.Errorf("unknown pattern family %q", s)
}

// transformKind selects the numeric encoding produced for a family.
type transformKind uint8

const (
	dayCount transformKind = iota + 1
	microsecondTimestamp
)

func (k transformKind) String() string {
	switch k {
	case dayCount:
		return "date"
	case microsecondTimestamp:
		return "datetime"
	default:
		return "unknown"
	}
}

func (f Family) transform() transformKind {
	switch f {
	case DateDMY, DateYMD:
		return dayCount
	case DatetimeDMY, DatetimeYMD:
		return microsecondTimestamp
	default:
		return 0
	}
}

var timestampMicros = &arrow.TimestampType{Unit: arrow.Microsecond}

// LogicalType is the arrow type stamped onto converted columns of this family:
// date32 for date families, zone-less timestamp[us] for datetime families.
func (f Family) LogicalType() arrow.FixedWidthDataType {
	if f.IsDate() {
		return arrow.FixedWidthTypes.Date32
	}
	return timestampMicros
}
