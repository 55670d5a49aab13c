package temporal

import "time"

const secondsPerDay = 24 * 60 * 60

// parse matches value against the pattern. Values carry no zone, so the
// result is always UTC.
func (p Pattern) parse(value string) (time.Time, bool) {
	t, err := time.Parse(p.layout, value)
	if err != nil {
		return time.Time{}, false
	}
	if p.fields&fieldSecond != 0 && !p.fractionAllowed(value) {
		return time.Time{}, false
	}
	return t, true
}

// fractionAllowed checks what follows the seconds digits. time.Parse takes a
// "." or "," fraction there even when the layout has none; %S only matches
// whole seconds and %.f only a "." fraction.
func (p Pattern) fractionAllowed(value string) bool {
	end, ok := p.secondsEnd(value)
	if !ok || end+1 >= len(value) || !isDigit(value[end+1]) {
		return true
	}
	switch value[end] {
	case '.':
		return p.fraction
	case ',':
		return false
	}
	return true
}

// secondsEnd walks value along the template the way time.Parse consumes it
// and returns the offset just past the seconds digits.
func (p Pattern) secondsEnd(value string) (int, bool) {
	pos := 0
	num := func() bool {
		if pos >= len(value) || !isDigit(value[pos]) {
			return false
		}
		pos++
		if pos < len(value) && isDigit(value[pos]) {
			pos++
		}
		return true
	}
	fixed := func(n int) bool {
		if pos+n > len(value) {
			return false
		}
		pos += n
		return true
	}
	lit := func(c byte) bool {
		if pos >= len(value) || value[pos] != c {
			return false
		}
		pos++
		return true
	}
	text := p.text
	for i := 0; i < len(text); i++ {
		if text[i] != '%' {
			if !lit(text[i]) {
				return 0, false
			}
			continue
		}
		i++
		var ok bool
		switch text[i] {
		case '%':
			ok = lit('%')
		case 'Y':
			ok = fixed(4)
		case 'y':
			ok = fixed(2)
		case 'e':
			if pos < len(value) && value[pos] == ' ' {
				pos++
			}
			ok = num()
		case 'm', 'd', 'H', 'M':
			ok = num()
		case 'F':
			ok = fixed(4) && lit('-') && num() && lit('-') && num()
		case 'S':
			ok = num()
			return pos, ok
		case 'T':
			ok = num() && lit(':') && num() && lit(':') && num()
			return pos, ok
		case '.':
			// %.f never precedes the seconds
			i++
			ok = true
		}
		if !ok {
			return 0, false
		}
	}
	return 0, false
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// Matches reports whether value parses under the pattern.
func (p Pattern) Matches(value string) bool {
	_, ok := p.parse(value)
	return ok
}

func (p Pattern) apply(value string, kind transformKind) (int64, bool) {
	t, ok := p.parse(value)
	if !ok {
		return 0, false
	}
	switch kind {
	case dayCount:
		return floorDiv(t.Unix(), secondsPerDay), true
	case microsecondTimestamp:
		return t.UnixMicro(), true
	}
	return 0, false
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// DaysToTime converts a day-count back to midnight UTC of that day.
func DaysToTime(days int32) time.Time {
	return time.Unix(int64(days)*secondsPerDay, 0).UTC()
}

// MicrosToTime converts a microsecond timestamp back to a UTC time.
func MicrosToTime(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}
