// Package narrative renders a single traffic stop as a short plain-text
// summary. Generation is a pure template fill: no I/O, no inference.
package narrative

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pkordes/stop-insights/internal/domain"
)

// Unknown is substituted for every field that is absent or unreadable.
const Unknown = "Unknown"

const (
	searchYes = "a search was conducted"
	searchNo  = "no search was conducted"
	drugYes   = "a drug-related stop"
	drugNo    = "NOT related to drugs"
)

// Generate returns a three-paragraph description of s, paragraphs separated
// by a blank line. It never fails: missing fields read "Unknown".
func Generate(s domain.TrafficStop) string {
	var b strings.Builder

	b.WriteString("On ")
	b.WriteString(resolve(s.StopDate, formatDate))
	b.WriteString(" at ")
	b.WriteString(resolve(s.StopTime, formatTimeOfDay))
	b.WriteString(", a ")
	b.WriteString(resolve(s.DriverAge, formatAge))
	b.WriteString("-year-old ")
	b.WriteString(resolve(s.DriverGender, titleCase))
	b.WriteString(" (")
	b.WriteString(resolve(s.DriverRace, text))
	b.WriteString(") from ")
	b.WriteString(resolve(s.CountryName, text))
	b.WriteString(" driving vehicle ")
	b.WriteString(resolve(s.VehicleNumber, text))
	b.WriteString(" was stopped for ")
	b.WriteString(resolve(s.Violation, text))
	b.WriteString(".\n\n")

	b.WriteString("During the stop, ")
	b.WriteString(phrase(s.SearchConducted, searchYes, searchNo))
	b.WriteString(", and the incident was ")
	b.WriteString(phrase(s.DrugsRelatedStop, drugYes, drugNo))
	b.WriteString(".\n\n")

	b.WriteString("The stop lasted ")
	b.WriteString(resolve(s.StopDuration, text))
	b.WriteString(", and the final recorded outcome was ")
	b.WriteString(resolve(s.StopOutcome, text))
	b.WriteString(".")

	return b.String()
}

// resolve formats *v, or returns Unknown when v is nil or format yields "".
func resolve[T any](v *T, format func(T) string) string {
	if v == nil {
		return Unknown
	}
	if out := format(*v); out != "" {
		return out
	}
	return Unknown
}

// phrase picks yes only for a present, true indicator.
func phrase(v *domain.Indicator, yes, no string) string {
	if v != nil && *v {
		return yes
	}
	return no
}

func text(s string) string {
	return strings.TrimSpace(s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTimeOfDay(t domain.TimeOfDay) string {
	if !t.Clock {
		return t.Text
	}
	return time.Date(2000, 1, 1, t.Hour, t.Minute, t.Second, 0, time.UTC).Format("03:04 PM")
}

func formatAge(age int) string {
	if age < 0 {
		return ""
	}
	return strconv.Itoa(age)
}

// titleCase upper-cases the first letter of each word and lower-cases the
// rest, so "mALE" and "male" both render as "Male".
func titleCase(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
