package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a clock time without a date, stored as minutes from midnight.
// It serializes as "15:04" so schedule JSON stays readable in the profile store.
type TimeOfDay int

// ParseTimeOfDay parses a "15:04" clock string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// MustTimeOfDay parses a "15:04" clock string and panics on failure.
// Intended for fixtures and tests only.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// OnDate anchors the clock time onto a calendar date in the given location
func (t TimeOfDay) OnDate(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// MarshalJSON implements json.Marshaler
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DayHours is the working interval for one day. Closed wins over the interval.
type DayHours struct {
	Closed bool      `json:"closed"`
	Start  TimeOfDay `json:"start"`
	End    TimeOfDay `json:"end"`
}

// IsOpen reports whether the day has a usable open interval
func (d DayHours) IsOpen() bool {
	return !d.Closed && d.End > d.Start
}

// ClosedDay is the resolver result when no schedule entry exists
var ClosedDay = DayHours{Closed: true}

// Weekday keys used in weekly schedule JSON
const (
	WeekdayMon = "mon"
	WeekdayTue = "tue"
	WeekdayWed = "wed"
	WeekdayThu = "thu"
	WeekdayFri = "fri"
	WeekdaySat = "sat"
	WeekdaySun = "sun"
)

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    WeekdayMon,
	time.Tuesday:   WeekdayTue,
	time.Wednesday: WeekdayWed,
	time.Thursday:  WeekdayThu,
	time.Friday:    WeekdayFri,
	time.Saturday:  WeekdaySat,
	time.Sunday:    WeekdaySun,
}

// WeekdayKey maps a time.Weekday to its schedule JSON key
func WeekdayKey(d time.Weekday) string {
	return weekdayKeys[d]
}

// WeeklySchedule is the recurring default schedule, keyed by weekday.
// A missing entry means the staff member does not work that day.
type WeeklySchedule map[string]DayHours

// DateKey identifies a calendar date in the clinic's location, "2006-01-02"
type DateKey string

// DateKeyOf derives the DateKey for an instant
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format("2006-01-02"))
}

// Staff is a member of a clinic's roster. The engine treats staff records as
// read-only snapshots; mutation happens through profile management.
type Staff struct {
	ID             string               `json:"id" db:"id"`
	ClinicID       string               `json:"clinic_id" db:"clinic_id"`
	DisplayName    string               `json:"display_name" db:"display_name"`
	Role           string               `json:"role" db:"role"`
	ServiceIDs     []string             `json:"service_ids" db:"service_ids"`
	WeeklySchedule WeeklySchedule       `json:"weekly_schedule" db:"weekly_schedule"`
	Overrides      map[DateKey]DayHours `json:"overrides" db:"overrides"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" db:"updated_at"`
}

// CanServe reports whether this staff member can perform the service.
// An empty capability set means the staff member serves everything.
func (s *Staff) CanServe(serviceID string) bool {
	if len(s.ServiceIDs) == 0 {
		return true
	}
	for _, id := range s.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
