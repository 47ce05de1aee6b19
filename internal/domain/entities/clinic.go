package entities

import "time"

// Clinic holds the clinic-level scheduling profile. DayStart/DayEnd are the
// nominal day span: the slot pre-filter window for availability views, and
// the working-hours source of last resort for clinics without a staff roster.
type Clinic struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Timezone  string    `json:"timezone" db:"timezone"`
	DayStart  TimeOfDay `json:"day_start" db:"day_start"`
	DayEnd    TimeOfDay `json:"day_end" db:"day_end"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Location resolves the clinic's timezone, falling back to UTC
func (c *Clinic) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
