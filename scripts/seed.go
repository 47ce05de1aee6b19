package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/infrastructure/clients/postgres"
	"github.com/clinicdesk/booking-platform/pkg/config"
)

// Seeds a demo clinic with a small roster and a handful of bookings.
// RESET_DB=true truncates the tables first.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := goqu.New("postgres", pgClient.DB())

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE bookings, staff, services, clinics CASCADE
		`); err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
	}

	loc, err := time.LoadLocation(cfg.Scheduling.Timezone)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.Scheduling.Timezone, err)
	}
	now := time.Now().In(loc)

	clinicID := "clinic-demo"
	if _, err := db.Insert("clinics").Rows(goqu.Record{
		"id":                clinicID,
		"name":              "Sakura Dental Clinic",
		"timezone":          cfg.Scheduling.Timezone,
		"day_start_minutes": 9 * 60,
		"day_end_minutes":   19 * 60,
	}).Executor().ExecContext(ctx); err != nil {
		log.Fatalf("Failed to seed clinic: %v", err)
	}

	services := []goqu.Record{
		{"id": "svc-checkup", "clinic_id": clinicID, "name": "Checkup", "duration_minutes": 30, "buffer_minutes": 0},
		{"id": "svc-cleaning", "clinic_id": clinicID, "name": "Cleaning", "duration_minutes": 45, "buffer_minutes": 15},
		{"id": "svc-whitening", "clinic_id": clinicID, "name": "Whitening", "duration_minutes": 60, "buffer_minutes": 0},
	}
	if _, err := db.Insert("services").Rows(services).Executor().ExecContext(ctx); err != nil {
		log.Fatalf("Failed to seed services: %v", err)
	}

	weekdays := entities.WeeklySchedule{
		entities.WeekdayMon: openHours("10:00", "18:00"),
		entities.WeekdayTue: openHours("10:00", "18:00"),
		entities.WeekdayWed: openHours("10:00", "18:00"),
		entities.WeekdayThu: openHours("10:00", "18:00"),
		entities.WeekdayFri: openHours("10:00", "18:00"),
	}
	withSaturday := entities.WeeklySchedule{
		entities.WeekdayTue: openHours("12:00", "19:00"),
		entities.WeekdayWed: openHours("12:00", "19:00"),
		entities.WeekdayThu: openHours("12:00", "19:00"),
		entities.WeekdayFri: openHours("12:00", "19:00"),
		entities.WeekdaySat: openHours("09:00", "15:00"),
	}

	// one upcoming holiday for the first dentist
	holiday := now.AddDate(0, 0, 7)
	overrides := map[entities.DateKey]entities.DayHours{
		entities.DateKeyOf(holiday): {Closed: true},
	}

	staff := []goqu.Record{
		{
			"id": "staff-tanaka", "clinic_id": clinicID, "display_name": "Dr. Tanaka", "role": "dentist",
			"service_ids":     mustJSON([]string{}), // serves everything
			"weekly_schedule": mustJSON(weekdays),
			"overrides":       mustJSON(overrides),
		},
		{
			"id": "staff-sato", "clinic_id": clinicID, "display_name": "Dr. Sato", "role": "dentist",
			"service_ids":     mustJSON([]string{"svc-checkup", "svc-cleaning"}),
			"weekly_schedule": mustJSON(withSaturday),
			"overrides":       mustJSON(map[string]interface{}{}),
		},
		{
			"id": "staff-suzuki", "clinic_id": clinicID, "display_name": "Suzuki", "role": "hygienist",
			"service_ids":     mustJSON([]string{"svc-cleaning"}),
			"weekly_schedule": mustJSON(weekdays),
			"overrides":       mustJSON(map[string]interface{}{}),
		},
	}
	if _, err := db.Insert("staff").Rows(staff).Executor().ExecContext(ctx); err != nil {
		log.Fatalf("Failed to seed staff: %v", err)
	}

	// two bookings tomorrow: one assigned, one free
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	staffID := "staff-tanaka"
	bookings := []goqu.Record{
		{
			"id": uuid.New().String(), "clinic_id": clinicID, "staff_id": staffID,
			"service_id": "svc-checkup",
			"start_at":   tomorrow.Add(10 * time.Hour), "end_at": tomorrow.Add(10*time.Hour + 30*time.Minute),
			"status": "confirmed", "guest_name": "Yamada Hanako",
		},
		{
			"id": uuid.New().String(), "clinic_id": clinicID, "staff_id": nil,
			"service_id": "svc-cleaning",
			"start_at":   tomorrow.Add(14 * time.Hour), "end_at": tomorrow.Add(15 * time.Hour),
			"status": "pending", "guest_name": "Kobayashi Ken",
		},
	}
	if _, err := db.Insert("bookings").Rows(bookings).Executor().ExecContext(ctx); err != nil {
		log.Fatalf("Failed to seed bookings: %v", err)
	}

	log.Println("Seed complete: 1 clinic, 3 services, 3 staff, 2 bookings")
}

func openHours(start, end string) entities.DayHours {
	return entities.DayHours{
		Start: entities.MustTimeOfDay(start),
		End:   entities.MustTimeOfDay(end),
	}
}

func mustJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("Failed to marshal seed data: %v", err)
	}
	return data
}
