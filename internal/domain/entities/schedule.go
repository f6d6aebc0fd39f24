package entities

import (
	"fmt"
	"regexp"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// CalendarDate is a YYYY-MM-DD day without a timezone
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseCalendarDate parses a strict YYYY-MM-DD string that names a real day
func ParseCalendarDate(s string) (CalendarDate, error) {
	if !datePattern.MatchString(s) {
		return CalendarDate{}, fmt.Errorf("date %q does not match YYYY-MM-DD", s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("date %q is not a calendar day: %w", s, err)
	}
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String formats the date as YYYY-MM-DD
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Start returns midnight of the day in loc
func (d CalendarDate) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// DateOf returns the calendar day of t in loc
func DateOf(t time.Time, loc *time.Location) CalendarDate {
	t = t.In(loc)
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ClockTime is a 24-hour HH:mm time of day
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses a strict 24-hour HH:mm string
func ParseClockTime(s string) (ClockTime, error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return ClockTime{}, fmt.Errorf("time %q does not match HH:mm", s)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return ClockTime{}, err
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String formats the time as HH:mm
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ClockOf returns the time of day of t in loc
func ClockOf(t time.Time, loc *time.Location) ClockTime {
	t = t.In(loc)
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

// Instant combines a date and a time of day into an absolute instant in loc
func Instant(d CalendarDate, c ClockTime, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

// WorkingHours is the day-independent booking window of the clinic
type WorkingHours struct {
	OpenHour    int
	CloseHour   int
	SlotMinutes int
}

// DefaultWorkingHours is 09:00-18:00 in 30 minute slots
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{OpenHour: 9, CloseHour: 18, SlotMinutes: 30}
}

// SlotTimes returns every slot start of a day in ascending order. A slot is
// offered only when it ends at or before the closing hour.
func (w WorkingHours) SlotTimes() []ClockTime {
	if w.SlotMinutes <= 0 || w.OpenHour >= w.CloseHour {
		return nil
	}

	closeMinute := w.CloseHour * 60
	slots := make([]ClockTime, 0, (closeMinute-w.OpenHour*60)/w.SlotMinutes)
	for m := w.OpenHour * 60; m+w.SlotMinutes <= closeMinute; m += w.SlotMinutes {
		slots = append(slots, ClockTime{Hour: m / 60, Minute: m % 60})
	}
	return slots
}

// Slot is a bookable start time on a given day
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// AvailabilityResult is the outcome of an availability check
type AvailabilityResult struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	Available     bool   `json:"available"`
	NextAvailable *Slot  `json:"nextAvailable,omitempty"`
}
