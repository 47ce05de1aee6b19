package scheduling_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/clinicdesk/booking-platform/internal/application/scheduling"
	"github.com/clinicdesk/booking-platform/internal/domain/entities"
	"github.com/clinicdesk/booking-platform/internal/domain/repositories"
)

// staticSource serves a fixed booking set to availability computations
type staticSource struct {
	set   *scheduling.BookingSet
	stale bool
}

func (s *staticSource) Bookings() []*entities.Booking { return s.set.Snapshot() }
func (s *staticSource) Stale() bool                   { return s.stale }

// Mocks

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateFields(ctx context.Context, id string, fields repositories.BookingFields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockBookingRepository) ListByClinicRange(ctx context.Context, clinicID string, from, to time.Time) ([]*entities.Booking, error) {
	args := m.Called(ctx, clinicID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) ListByClinic(ctx context.Context, clinicID string) ([]*entities.Staff, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Staff), args.Error(1)
}

func (m *MockStaffRepository) GetByID(ctx context.Context, id string) (*entities.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Staff), args.Error(1)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) ListByClinic(ctx context.Context, clinicID string) ([]*entities.Service, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Service), args.Error(1)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Service), args.Error(1)
}

type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Clinic), args.Error(1)
}

// memoryBus is an in-process EventBus used by live sync tests. It delivers
// events in publish order to every subscriber of a channel.
type memoryBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.BookingEvent
	published   []*entities.BookingEvent
}

func newMemoryBus() *memoryBus {
	return &memoryBus{
		subscribers: make(map[string][]chan *entities.BookingEvent),
	}
}

func (b *memoryBus) Publish(ctx context.Context, channel string, event *entities.BookingEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	for _, ch := range b.subscribers[channel] {
		ch <- event
	}
	return nil
}

func (b *memoryBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.BookingEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.BookingEvent, 100)
	b.subscribers[channel] = append(b.subscribers[channel], ch)
	return ch, nil
}

func (b *memoryBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers[channel] {
		close(ch)
	}
	delete(b.subscribers, channel)
	return nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for channel, chans := range b.subscribers {
		for _, ch := range chans {
			close(ch)
		}
		delete(b.subscribers, channel)
	}
	return nil
}

func (b *memoryBus) subscriberCount(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[channel])
}

func (b *memoryBus) publishedEvents() []*entities.BookingEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*entities.BookingEvent, len(b.published))
	copy(out, b.published)
	return out
}

// Fixtures

const (
	testClinicID  = "clinic-1"
	testServiceID = "svc-cut"
)

// wednesday is a plain open weekday used across scenarios
var wednesday = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func allWeekOpen(start, end string) entities.WeeklySchedule {
	hours := entities.DayHours{
		Start: entities.MustTimeOfDay(start),
		End:   entities.MustTimeOfDay(end),
	}
	return entities.WeeklySchedule{
		entities.WeekdayMon: hours,
		entities.WeekdayTue: hours,
		entities.WeekdayWed: hours,
		entities.WeekdayThu: hours,
		entities.WeekdayFri: hours,
		entities.WeekdaySat: hours,
		entities.WeekdaySun: hours,
	}
}

func testStaff(id string, serviceIDs []string, start, end string) *entities.Staff {
	return &entities.Staff{
		ID:             id,
		ClinicID:       testClinicID,
		DisplayName:    "Staff " + id,
		ServiceIDs:     serviceIDs,
		WeeklySchedule: allWeekOpen(start, end),
	}
}

func testClinic() *entities.Clinic {
	return &entities.Clinic{
		ID:       testClinicID,
		Name:     "Test Clinic",
		Timezone: "UTC",
		DayStart: entities.MustTimeOfDay("09:00"),
		DayEnd:   entities.MustTimeOfDay("19:00"),
	}
}

func testService(durationMin, bufferMin int) *entities.Service {
	return &entities.Service{
		ID:              testServiceID,
		ClinicID:        testClinicID,
		Name:            "Cut",
		DurationMinutes: durationMin,
		BufferMinutes:   bufferMin,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2024, 5, 1, hour, min, 0, 0, time.UTC)
}

func strPtr(s string) *string {
	return &s
}

func activeBooking(id, staffID string, start, end time.Time) *entities.Booking {
	var sid *string
	if staffID != "" {
		sid = &staffID
	}
	return &entities.Booking{
		ID:        id,
		ClinicID:  testClinicID,
		StaffID:   sid,
		ServiceID: testServiceID,
		StartAt:   start,
		EndAt:     end,
		Status:    entities.BookingStatusConfirmed,
	}
}
