// Package nametemplate expands capture file name patterns such as
// "cap_{yyyyMMdd_HHmmss}_{###}" into concrete file names.
//
// A pattern is literal text with {...} placeholders. A placeholder made only
// of '#' characters is the capture counter, zero padded to the number of
// hashes. Anything else is a date/time format in the yyyy/MM/dd/HH/mm/ss
// notation. Placeholders that cannot be interpreted are copied unchanged.
package nametemplate

import (
	"fmt"
	"strings"
	"time"
)

// Default is used when the template is empty or only whitespace.
const Default = "cap_{yyyyMMdd_HHmmss}_{###}"

// SegmentKind classifies a piece of a parsed template.
type SegmentKind int

const (
	// Literal text copied verbatim.
	Literal SegmentKind = iota
	// Counter is a run of '#' characters.
	Counter
	// DateTime is a valid date/time format.
	DateTime
	// Invalid is a placeholder that is emitted unchanged, braces included.
	Invalid
)

func (k SegmentKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Counter:
		return "counter"
	case DateTime:
		return "datetime"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("SegmentKind(%d)", int(k))
}

// Segment is one piece of a template. For placeholders Text is the body
// without braces; for literals it is the literal text.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Parse splits template into literal and placeholder segments. A
// placeholder runs from '{' to the next '}' and must not be empty; a lone
// '{' or "{}" stays literal.
func Parse(template string) []Segment {
	var segs []Segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Kind: Literal, Text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(template); {
		if template[i] == '{' {
			end := strings.IndexByte(template[i+1:], '}')
			if end > 0 {
				flush()
				body := template[i+1 : i+1+end]
				segs = append(segs, classify(body))
				i += end + 2
				continue
			}
		}
		lit.WriteByte(template[i])
		i++
	}
	flush()
	return segs
}

func classify(body string) Segment {
	if strings.Trim(body, "#") == "" {
		return Segment{Kind: Counter, Text: body}
	}
	if _, ok := formatDateTime(body, time.Time{}); ok {
		return Segment{Kind: DateTime, Text: body}
	}
	return Segment{Kind: Invalid, Text: body}
}

// Engine generates names against a clock. The zero value uses time.Now.
type Engine struct {
	Now func() time.Time
}

// Generate expands template for the given counter and makes sure the result
// ends with "."+extension, compared case-insensitively. It never fails and
// does not touch the file system, so equal inputs within the same second
// produce equal names.
func (e Engine) Generate(template string, counter int, extension string) string {
	if strings.TrimSpace(template) == "" {
		template = Default
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	t := now()

	var sb strings.Builder
	for _, seg := range Parse(template) {
		switch seg.Kind {
		case Literal:
			sb.WriteString(seg.Text)
		case Counter:
			fmt.Fprintf(&sb, "%0*d", len(seg.Text), counter)
		case DateTime:
			out, _ := formatDateTime(seg.Text, t)
			sb.WriteString(out)
		default:
			sb.WriteString("{" + seg.Text + "}")
		}
	}
	return withExtension(sb.String(), extension)
}

// Generate expands template using the local clock.
func Generate(template string, counter int, extension string) string {
	return Engine{}.Generate(template, counter, extension)
}

func withExtension(name, extension string) string {
	ext := strings.TrimPrefix(strings.TrimSpace(extension), ".")
	if ext == "" {
		return name
	}
	suffix := "." + ext
	if len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
		return name
	}
	return name + suffix
}
