package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_SchedulingConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("BOOKING_SLOT_MINUTES", "45")
	os.Setenv("CALENDAR_SLOT_MINUTES", "15")
	os.Setenv("CLINIC_TIMEZONE", "Europe/Berlin")
	defer func() {
		os.Unsetenv("BOOKING_SLOT_MINUTES")
		os.Unsetenv("CALENDAR_SLOT_MINUTES")
		os.Unsetenv("CLINIC_TIMEZONE")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 45, cfg.Scheduling.BookingSlotMinutes)
	assert.Equal(t, 15, cfg.Scheduling.CalendarSlotMinutes)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduling.Timezone)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("BOOKING_SLOT_MINUTES")
	os.Unsetenv("CALENDAR_SLOT_MINUTES")

	cfg, err := Load()
	assert.NoError(t, err)

	// The booking wizard books hourly, the staff calendar renders half-hour rows
	assert.Equal(t, 60, cfg.Scheduling.BookingSlotMinutes)
	assert.Equal(t, 30, cfg.Scheduling.CalendarSlotMinutes)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "clinic_booking",
		SSLMode:  "require",
	}
	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=clinic_booking sslmode=require", cfg.DatabaseDSN())
}
