package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/pkg/ptr"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Фейки контрактов use case

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetActiveByStaffBetween(_ context.Context, staffIDs []int64, window domain.Interval) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		for _, id := range staffIDs {
			if b.StaffID == id && b.Interval().Overlaps(window) {
				result = append(result, b)
			}
		}
	}
	return result, nil
}

type fakeScheduleRepo struct {
	rows   map[int64]map[time.Weekday]*domain.WeeklyScheduleRow
	breaks []*domain.Break
	err    error
}

func (f *fakeScheduleRepo) GetByWeekday(_ context.Context, staffID int64, weekday time.Weekday) (*domain.WeeklyScheduleRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	if rows, ok := f.rows[staffID]; ok {
		if row, ok := rows[weekday]; ok {
			return row, nil
		}
	}
	return nil, scheduleRepo.ErrScheduleNotFound
}

func (f *fakeScheduleRepo) GetBreaksForStaff(_ context.Context, staffIDs []int64, _ time.Time) ([]*domain.Break, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.Break, 0)
	for _, b := range f.breaks {
		for _, id := range staffIDs {
			if b.StaffID == id {
				result = append(result, b)
			}
		}
	}
	return result, nil
}

type fakeCatalogClient struct {
	locations map[int64]*catalogservice.Location
	services  map[int64]*catalogservice.Service
	staff     map[int64]*catalogservice.Staff
}

func (f *fakeCatalogClient) GetLocation(_ context.Context, locationID int64) (*catalogservice.Location, error) {
	if location, ok := f.locations[locationID]; ok {
		return location, nil
	}
	return nil, catalogservice.ErrLocationNotFound
}

func (f *fakeCatalogClient) GetService(_ context.Context, _, serviceID int64) (*catalogservice.Service, error) {
	if service, ok := f.services[serviceID]; ok {
		return service, nil
	}
	return nil, catalogservice.ErrServiceNotFound
}

func (f *fakeCatalogClient) GetStaff(_ context.Context, staffID int64) (*catalogservice.Staff, error) {
	if staff, ok := f.staff[staffID]; ok {
		return staff, nil
	}
	return nil, catalogservice.ErrStaffNotFound
}

func (f *fakeCatalogClient) ListStaffByLocation(_ context.Context, locationID int64) ([]catalogservice.Staff, error) {
	result := make([]catalogservice.Staff, 0)
	for _, staff := range f.staff {
		if staff.WorksAt(locationID) {
			result = append(result, *staff)
		}
	}
	return result, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Общие данные сценариев

func openWeek() catalogservice.WeekSchedule {
	day := catalogservice.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr("09:00"), CloseTime: ptr.Ptr("18:00")}
	return catalogservice.WeekSchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}
}

func testCatalog() *fakeCatalogClient {
	return &fakeCatalogClient{
		locations: map[int64]*catalogservice.Location{
			10: {ID: 10, Name: "Салон на Арбате", TimeZone: "UTC", ManagerIDs: []int64{100}, WorkingHours: openWeek()},
		},
		services: map[int64]*catalogservice.Service{
			20: {ID: 20, Name: "Стрижка", Price: ptr.Ptr(1500.0), DurationMinutes: 60, LocationIDs: []int64{10}},
		},
		staff: map[int64]*catalogservice.Staff{
			1: {ID: 1, FullName: "Анна Иванова", Active: true, BookableOnline: true, LocationIDs: []int64{10}, ServiceIDs: []int64{20}},
		},
	}
}

func weeklyRow(staffID int64, open, close types.TimeString) map[time.Weekday]*domain.WeeklyScheduleRow {
	rows := make(map[time.Weekday]*domain.WeeklyScheduleRow)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rows[wd] = &domain.WeeklyScheduleRow{StaffID: staffID, Weekday: wd, OpenTime: open, CloseTime: close, IsWorking: true}
	}
	return rows
}

func newTestUseCase(bookingRepo *fakeBookingRepo, schedRepo *fakeScheduleRepo, catalog *fakeCatalogClient, now time.Time) *UseCase {
	uc := NewUseCase(bookingRepo, schedRepo, catalog, nopLogger{}, 30)
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

// 15 сентября 2026 - вторник
var testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func slotByStart(t *testing.T, slots []Slot, start types.TimeString) Slot {
	t.Helper()
	for _, slot := range slots {
		if slot.StartTime == start {
			return slot
		}
	}
	t.Fatalf("slot %s not found", start)
	return Slot{}
}

func TestExecute_GridAroundExistingBooking(t *testing.T) {
	booking := &domain.Booking{
		ID:             1,
		StaffID:        1,
		LocationID:     10,
		Status:         domain.StatusBooked,
		ScheduledStart: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		ScheduledEnd:   time.Date(2026, 9, 15, 11, 0, 0, 0, time.UTC),
	}

	uc := newTestUseCase(
		&fakeBookingRepo{bookings: []*domain.Booking{booking}},
		&fakeScheduleRepo{rows: map[int64]map[time.Weekday]*domain.WeeklyScheduleRow{1: weeklyRow(1, "09:00", "17:00")}},
		testCatalog(),
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC),
	)

	resp, err := uc.Execute(context.Background(), &Request{LocationID: 10, ServiceID: ptr.Ptr[int64](20), Date: testDate})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, 60, resp.DurationMinutes)
	// Окно 09:00-17:00, шаг 30, услуга 60 минут: последний кандидат 16:00
	require.Len(t, resp.Slots, 15)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("16:00"), resp.Slots[14].StartTime)

	// Бронирование 10:00-11:00 выбивает три кандидата
	assert.True(t, slotByStart(t, resp.Slots, "09:00").Available)
	assert.False(t, slotByStart(t, resp.Slots, "09:30").Available)
	assert.False(t, slotByStart(t, resp.Slots, "10:00").Available)
	assert.False(t, slotByStart(t, resp.Slots, "10:30").Available)
	// Слот, граничащий с концом бронирования, свободен
	assert.True(t, slotByStart(t, resp.Slots, "11:00").Available)
}

func TestExecute_BreakBlocksSlots(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{
			rows:   map[int64]map[time.Weekday]*domain.WeeklyScheduleRow{1: weeklyRow(1, "09:00", "17:00")},
			breaks: []*domain.Break{{StaffID: 1, Date: testDate, StartTime: "12:00", EndTime: "13:00"}},
		},
		testCatalog(),
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC),
	)

	resp, err := uc.Execute(context.Background(), &Request{LocationID: 10, ServiceID: ptr.Ptr[int64](20), Date: testDate})
	require.NoError(t, err)

	assert.False(t, slotByStart(t, resp.Slots, "11:30").Available)
	assert.False(t, slotByStart(t, resp.Slots, "12:00").Available)
	assert.False(t, slotByStart(t, resp.Slots, "12:30").Available)
	assert.True(t, slotByStart(t, resp.Slots, "11:00").Available)
	assert.True(t, slotByStart(t, resp.Slots, "13:00").Available)
}

func TestExecute_PastDateReturnsUnavailableGrid(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{rows: map[int64]map[time.Weekday]*domain.WeeklyScheduleRow{1: weeklyRow(1, "09:00", "17:00")}},
		testCatalog(),
		time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC),
	)

	resp, err := uc.Execute(context.Background(), &Request{LocationID: 10, ServiceID: ptr.Ptr[int64](20), Date: testDate})
	require.NoError(t, err)

	// Прошедшая дата - полностью недоступная сетка, а не ошибка
	require.NotEmpty(t, resp.Slots)
	for _, slot := range resp.Slots {
		assert.False(t, slot.Available, "slot %s", slot.StartTime)
		assert.Empty(t, slot.StaffIDs)
	}
}

func TestExecute_MergesMultipleStaff(t *testing.T) {
	catalog := testCatalog()
	catalog.staff[2] = &catalogservice.Staff{
		ID: 2, FullName: "Мария Петрова", Active: true, BookableOnline: true,
		LocationIDs: []int64{10}, ServiceIDs: []int64{20},
	}

	// У второго мастера смещенное окно 12:00-17:00
	rows := map[int64]map[time.Weekday]*domain.WeeklyScheduleRow{
		1: weeklyRow(1, "09:00", "13:00"),
		2: weeklyRow(2, "12:00", "17:00"),
	}

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{rows: rows}, catalog,
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{LocationID: 10, ServiceID: ptr.Ptr[int64](20), Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, slotByStart(t, resp.Slots, "09:00").StaffIDs)
	assert.Equal(t, []int64{1, 2}, slotByStart(t, resp.Slots, "12:00").StaffIDs)
	assert.Equal(t, []int64{2}, slotByStart(t, resp.Slots, "16:00").StaffIDs)
}

func TestExecute_PinnedStaffValidation(t *testing.T) {
	catalog := testCatalog()
	catalog.staff[2] = &catalogservice.Staff{
		ID: 2, FullName: "Мария Петрова", Active: true, BookableOnline: true,
		LocationIDs: []int64{99}, ServiceIDs: []int64{20},
	}
	catalog.staff[3] = &catalogservice.Staff{
		ID: 3, FullName: "Ольга Сидорова", Active: true, BookableOnline: true,
		LocationIDs: []int64{10}, ServiceIDs: []int64{777},
	}
	catalog.staff[4] = &catalogservice.Staff{
		ID: 4, FullName: "Ирина Кузнецова", Active: true, BookableOnline: false,
		LocationIDs: []int64{10}, ServiceIDs: []int64{20},
	}

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{}, catalog,
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name    string
		staffID int64
		wantErr error
	}{
		{name: "unknown staff", staffID: 500, wantErr: ErrStaffNotFound},
		{name: "staff at another location", staffID: 2, wantErr: ErrStaffNotAtLocation},
		{name: "staff without service", staffID: 3, wantErr: ErrStaffServiceMismatch},
		{name: "staff not bookable online", staffID: 4, wantErr: ErrStaffNotBookable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &Request{
				LocationID: 10,
				ServiceID:  ptr.Ptr[int64](20),
				StaffID:    ptr.Ptr[int64](tt.staffID),
				Date:       testDate,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_CatalogErrors(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{}, testCatalog(),
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{LocationID: 500, Date: testDate})
	assert.ErrorIs(t, err, ErrLocationNotFound)

	_, err = uc.Execute(context.Background(), &Request{LocationID: 10, ServiceID: ptr.Ptr[int64](500), Date: testDate})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_NoEligibleStaff(t *testing.T) {
	catalog := testCatalog()
	catalog.staff = map[int64]*catalogservice.Staff{}

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{}, catalog,
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{LocationID: 10, ServiceID: ptr.Ptr[int64](20), Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_FallbackToLocationHours(t *testing.T) {
	// Без персонального расписания окно берется из часов работы салона
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{}, testCatalog(),
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{LocationID: 10, ServiceID: ptr.Ptr[int64](20), Date: testDate})
	require.NoError(t, err)

	// Салон работает 09:00-18:00: последний кандидат 17:00
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[len(resp.Slots)-1].StartTime)
}

func TestExecute_DayOffProducesEmptyGrid(t *testing.T) {
	rows := map[int64]map[time.Weekday]*domain.WeeklyScheduleRow{
		1: {testDate.Weekday(): {StaffID: 1, Weekday: testDate.Weekday(), IsWorking: false}},
	}

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{rows: rows}, testCatalog(),
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{LocationID: 10, ServiceID: ptr.Ptr[int64](20), Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{}, testCatalog(),
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{LocationID: 0, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{LocationID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
