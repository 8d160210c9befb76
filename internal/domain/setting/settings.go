package setting

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time of day %q, expected HH:mm", s)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Seconds returns the offset of c from midnight.
func (c ClockTime) Seconds() int {
	return c.Hour*3600 + c.Minute*60
}

// SecondOfDay returns the offset of t from its local midnight.
func SecondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// Window is an inclusive time-of-day range.
type Window struct {
	Start ClockTime
	End   ClockTime
}

// Contains reports whether the local time of day of t lies within the window.
// Bounds have minute precision, so seconds are dropped and the End minute is
// open until its last second.
func (w Window) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.Start.Hour*60+w.Start.Minute && m <= w.End.Hour*60+w.End.Minute
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// Settings is the typed view of the settings store, resolved once per request.
type Settings struct {
	CheckIn              Window
	CheckOut             Window
	WorkingHoursStart    ClockTime
	WorkingHoursEnd      ClockTime
	LateToleranceMinutes int
	LeaveMinNoticeDays   int
	MaxLeaveDaysPerYear  int // 0 means no cap
	LeaveRequireApproval bool
	Timezone             *time.Location
}

// LateThreshold is the last second of the day that still counts as on time.
func (s Settings) LateThreshold() int {
	return s.WorkingHoursStart.Seconds() + s.LateToleranceMinutes*60
}

// Today returns local midnight of now in the configured timezone.
func (s Settings) Today(now time.Time) time.Time {
	return DateOf(now, s.Location())
}

func (s Settings) Location() *time.Location {
	if s.Timezone == nil {
		return time.UTC
	}
	return s.Timezone
}

// DateOf truncates t to midnight of its calendar date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DefaultSettings returns the typed built-in configuration.
func DefaultSettings() Settings {
	s, err := Parse(nil)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateValue checks that value parses according to t.
func ValidateValue(t ValueType, value string) error {
	switch t {
	case TypeString:
		return nil
	case TypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		return nil
	case TypeBoolean:
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		return nil
	case TypeTime:
		_, err := ParseClock(value)
		return err
	default:
		return fmt.Errorf("unsupported type %q", t)
	}
}

// Parse builds Settings from stored rows. Missing keys take their defaults.
// Any value that does not parse according to its declared type, or a known
// key declared with the wrong type, fails with ErrConfigurationInvalid.
func Parse(rows []AppSetting) (Settings, error) {
	values := make(map[string]string, len(definitions))
	for key, d := range definitions {
		values[key] = d.Default
	}

	for _, row := range rows {
		if !row.Type.IsValid() {
			return Settings{}, invalid(row.Key, fmt.Errorf("unsupported type %q", row.Type))
		}
		if err := ValidateValue(row.Type, row.Value); err != nil {
			return Settings{}, invalid(row.Key, err)
		}
		d, known := definitions[row.Key]
		if !known {
			continue
		}
		if d.Type != row.Type {
			return Settings{}, invalid(row.Key, fmt.Errorf("declared as %s, expected %s", row.Type, d.Type))
		}
		values[row.Key] = strings.TrimSpace(row.Value)
	}

	var s Settings
	var err error

	clocks := []struct {
		key string
		dst *ClockTime
	}{
		{KeyCheckInStartTime, &s.CheckIn.Start},
		{KeyCheckInEndTime, &s.CheckIn.End},
		{KeyCheckOutStartTime, &s.CheckOut.Start},
		{KeyCheckOutEndTime, &s.CheckOut.End},
		{KeyWorkingHoursStart, &s.WorkingHoursStart},
		{KeyWorkingHoursEnd, &s.WorkingHoursEnd},
	}
	for _, c := range clocks {
		if *c.dst, err = ParseClock(values[c.key]); err != nil {
			return Settings{}, invalid(c.key, err)
		}
	}

	counts := []struct {
		key string
		dst *int
	}{
		{KeyLateToleranceMinutes, &s.LateToleranceMinutes},
		{KeyLeaveMinNoticeDays, &s.LeaveMinNoticeDays},
		{KeyMaxLeaveDaysPerYear, &s.MaxLeaveDaysPerYear},
	}
	for _, c := range counts {
		n, err := strconv.Atoi(values[c.key])
		if err != nil || n < 0 {
			return Settings{}, invalid(c.key, fmt.Errorf("expected a non-negative whole number, got %q", values[c.key]))
		}
		*c.dst = n
	}

	if s.LeaveRequireApproval, err = strconv.ParseBool(values[KeyLeaveRequireApproval]); err != nil {
		return Settings{}, invalid(KeyLeaveRequireApproval, err)
	}

	if s.Timezone, err = time.LoadLocation(values[KeyTimezone]); err != nil {
		return Settings{}, invalid(KeyTimezone, err)
	}

	if s.CheckIn.Start.Seconds() > s.CheckIn.End.Seconds() {
		return Settings{}, invalid(KeyCheckInEndTime, fmt.Errorf("check-in window %s ends before it starts", s.CheckIn))
	}
	if s.CheckOut.Start.Seconds() > s.CheckOut.End.Seconds() {
		return Settings{}, invalid(KeyCheckOutEndTime, fmt.Errorf("check-out window %s ends before it starts", s.CheckOut))
	}

	return s, nil
}

func invalid(key string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrConfigurationInvalid, key, err)
}
