package nametemplate

import (
	"fmt"
	"strings"
	"time"
)

// maxFraction is the deepest sub-second precision a format may ask for.
const maxFraction = 7

// formatDateTime renders t using a custom date/time format made of repeated
// pattern letters (yyyy, MM, dd, HH, mm, ss, fff, tt, ...). Quoted text and
// backslash escapes are literal, and non-letters pass through. It reports
// false for unknown letters, unterminated quotes or a trailing backslash.
func formatDateTime(layout string, t time.Time) (string, bool) {
	var sb strings.Builder
	rs := []rune(layout)
	for i := 0; i < len(rs); {
		c := rs[i]
		switch {
		case c == '\'' || c == '"':
			end := indexRune(rs[i+1:], c)
			if end < 0 {
				return "", false
			}
			sb.WriteString(string(rs[i+1 : i+1+end]))
			i += end + 2
			continue
		case c == '\\':
			if i+1 >= len(rs) {
				return "", false
			}
			sb.WriteRune(rs[i+1])
			i += 2
			continue
		case c == '%':
			i++
			continue
		case !isLetter(c):
			sb.WriteRune(c)
			i++
			continue
		}

		n := 1
		for i+n < len(rs) && rs[i+n] == c {
			n++
		}
		out, ok := field(c, n, t)
		if !ok {
			return "", false
		}
		sb.WriteString(out)
		i += n
	}
	return sb.String(), true
}

func field(c rune, n int, t time.Time) (string, bool) {
	switch c {
	case 'y':
		switch n {
		case 1:
			return fmt.Sprint(t.Year() % 100), true
		case 2:
			return fmt.Sprintf("%02d", t.Year()%100), true
		default:
			return fmt.Sprintf("%0*d", n, t.Year()), true
		}
	case 'M':
		switch n {
		case 1:
			return fmt.Sprint(int(t.Month())), true
		case 2:
			return fmt.Sprintf("%02d", int(t.Month())), true
		case 3:
			return t.Month().String()[:3], true
		default:
			return t.Month().String(), true
		}
	case 'd':
		switch n {
		case 1:
			return fmt.Sprint(t.Day()), true
		case 2:
			return fmt.Sprintf("%02d", t.Day()), true
		case 3:
			return t.Weekday().String()[:3], true
		default:
			return t.Weekday().String(), true
		}
	case 'H':
		return pad(t.Hour(), n), true
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, n), true
	case 'm':
		return pad(t.Minute(), n), true
	case 's':
		return pad(t.Second(), n), true
	case 'f', 'F':
		if n > maxFraction {
			return "", false
		}
		digits := fmt.Sprintf("%09d", t.Nanosecond())[:n]
		if c == 'F' {
			digits = strings.TrimRight(digits, "0")
		}
		return digits, true
	case 't':
		ampm := "AM"
		if t.Hour() >= 12 {
			ampm = "PM"
		}
		if n == 1 {
			return ampm[:1], true
		}
		return ampm, true
	case 'z':
		_, offset := t.Zone()
		sign := '+'
		if offset < 0 {
			sign = '-'
			offset = -offset
		}
		hours, minutes := offset/3600, (offset%3600)/60
		switch n {
		case 1:
			return fmt.Sprintf("%c%d", sign, hours), true
		case 2:
			return fmt.Sprintf("%c%02d", sign, hours), true
		default:
			return fmt.Sprintf("%c%02d%02d", sign, hours, minutes), true
		}
	}
	return "", false
}

func pad(v, n int) string {
	if n == 1 {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%02d", v)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func indexRune(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}
