package entities

import "time"

// SlotStatus is the capacity signal shown for a candidate slot
type SlotStatus string

const (
	// SlotStatusOpen means two or more units of capacity remain
	SlotStatusOpen SlotStatus = "open"

	// SlotStatusLow means exactly one unit of capacity remains
	SlotStatusLow SlotStatus = "low"

	// SlotStatusFull means no capacity remains
	SlotStatusFull SlotStatus = "full"
)

// AvailabilitySlot is one candidate start time with its capacity status.
// It is a derived view, recomputed from the booking set; never persisted.
type AvailabilitySlot struct {
	StartAt time.Time  `json:"start_at"`
	Status  SlotStatus `json:"status"`
}
