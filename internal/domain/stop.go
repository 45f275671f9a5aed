// Package domain contains the core data types for the traffic stop insights
// service. It has no external dependencies and is imported by every other
// internal package (catalog, narrative, repo, service, handler).
package domain

import (
	"fmt"
	"time"
)

// TrafficStop is one traffic-stop event. Every field except ID is optional:
// a nil pointer means the value was absent in the source row or form, and
// consumers must render a placeholder instead of failing.
type TrafficStop struct {
	ID int64

	StopDate *time.Time
	StopTime *TimeOfDay

	DriverGender *string
	DriverAge    *int
	DriverRace   *string

	Violation        *string
	SearchConducted  *Indicator
	SearchType       *string
	DrugsRelatedStop *Indicator
	IsArrested       *Indicator

	StopOutcome  *string
	StopDuration *string

	VehicleNumber *string
	CountryName   *string
	Timestamp     *time.Time
}

// Indicator is a 0/1 column lifted into a boolean at the storage boundary.
type Indicator bool

// IndicatorFromInt converts a stored 0/1 value. Only the literal 1 is true;
// any other value, including 2 or -1, is false.
func IndicatorFromInt(v int64) Indicator {
	return Indicator(v == 1)
}

// Int returns the stored 0/1 representation.
func (i Indicator) Int() int64 {
	if i {
		return 1
	}
	return 0
}

// TimeOfDay is a stop_time value. Stored rows always carry a clock value;
// user-edited forms may carry free text that could not be parsed, which is
// kept verbatim in Text.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
	// Clock reports whether Hour, Minute and Second hold a parsed value.
	Clock bool
	Text  string
}

// ClockTime returns a parsed TimeOfDay.
func ClockTime(hour, minute, second int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute, Second: second, Clock: true}
}

var timeOfDayLayouts = []string{"15:04:05", "15:04", "3:04 PM", "03:04 PM", "3:04PM"}

// ParseTimeOfDay parses s as a clock time. Values that match none of the
// accepted layouts are returned as free text, unchanged.
func ParseTimeOfDay(s string) TimeOfDay {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime(t.Hour(), t.Minute(), t.Second())
		}
	}
	return TimeOfDay{Text: s}
}

// String returns "15:04:05" for clock values and Text otherwise.
func (t TimeOfDay) String() string {
	if !t.Clock {
		return t.Text
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
