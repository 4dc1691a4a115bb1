package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	scheduleStorage "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/internal/integrations/clientservice"
	"github.com/m04kA/SLN-BookingService/pkg/ptr"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Фейки контрактов use case

// fakeBookingRepo хранит бронирования в памяти; mutex позволяет гонять
// конкурентные сценарии
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int64
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	created := *booking
	created.ID = f.nextID
	created.CreatedAt = time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	f.bookings = append(f.bookings, &created)
	return &created, nil
}

func (f *fakeBookingRepo) GetActiveByStaffIntersecting(_ context.Context, staffID int64, interval domain.Interval) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.StaffID == staffID && b.BlocksSlot() && b.Interval().Overlaps(interval) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeScheduleRepo struct {
	rows   map[time.Weekday]*domain.WeeklyScheduleRow
	breaks []*domain.Break
}

func (f *fakeScheduleRepo) GetByWeekday(_ context.Context, _ int64, weekday time.Weekday) (*domain.WeeklyScheduleRow, error) {
	if row, ok := f.rows[weekday]; ok {
		return row, nil
	}
	return nil, scheduleStorage.ErrScheduleNotFound
}

func (f *fakeScheduleRepo) GetBreaks(_ context.Context, staffID int64, _ time.Time) ([]*domain.Break, error) {
	result := make([]*domain.Break, 0)
	for _, b := range f.breaks {
		if b.StaffID == staffID {
			result = append(result, b)
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

type fakeClientClient struct {
	clients map[int64]*clientservice.ClientRecord
	err     error
}

func (f *fakeClientClient) GetClientWithGracefulDegradation(_ context.Context, clientID int64) (*clientservice.ClientRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if client, ok := f.clients[clientID]; ok {
		return client, nil
	}
	return nil, clientservice.ErrClientNotFound
}

// fakeTxManager сериализует транзакции мьютексом, имитируя
// SERIALIZABLE изоляцию для конкурентных сценариев
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
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

func testCatalog() *fakeCatalogClient {
	day := catalogservice.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr("09:00"), CloseTime: ptr.Ptr("18:00")}
	return &fakeCatalogClient{
		locations: map[int64]*catalogservice.Location{
			10: {
				ID: 10, Name: "Салон на Арбате", TimeZone: "UTC", ManagerIDs: []int64{100},
				WorkingHours: catalogservice.WeekSchedule{
					Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
					Friday: day, Saturday: day, Sunday: day,
				},
			},
		},
		services: map[int64]*catalogservice.Service{
			20: {ID: 20, Name: "Стрижка", Price: ptr.Ptr(1500.0), DurationMinutes: 60, LocationIDs: []int64{10}},
		},
		staff: map[int64]*catalogservice.Staff{
			1: {ID: 1, FullName: "Анна Иванова", Active: true, BookableOnline: true, LocationIDs: []int64{10}, ServiceIDs: []int64{20}},
		},
	}
}

func testClients() *fakeClientClient {
	return &fakeClientClient{
		clients: map[int64]*clientservice.ClientRecord{
			5: {ID: 5, FullName: "Петр Смирнов", Phone: "+79001234567"},
		},
	}
}

func workingWeek(staffID int64, open, close types.TimeString) map[time.Weekday]*domain.WeeklyScheduleRow {
	rows := make(map[time.Weekday]*domain.WeeklyScheduleRow)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rows[wd] = &domain.WeeklyScheduleRow{StaffID: staffID, Weekday: wd, OpenTime: open, CloseTime: close, IsWorking: true}
	}
	return rows
}

func newTestUseCase(
	bookingRepo *fakeBookingRepo,
	schedRepo *fakeScheduleRepo,
	catalog *fakeCatalogClient,
	clients *fakeClientClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(bookingRepo, schedRepo, catalog, clients, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

// 15 сентября 2026 - вторник
var (
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
)

func validRequest() *Request {
	return &Request{
		ClientID:   5,
		LocationID: 10,
		StaffID:    1,
		ServiceID:  20,
		Date:       testDate,
		StartTime:  "10:00",
	}
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo,
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		testCatalog(), testClients(), testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "booked", resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), resp.ScheduledStart)
	assert.Equal(t, time.Date(2026, 9, 15, 11, 0, 0, 0, time.UTC), resp.ScheduledEnd)

	// Денормализация данных услуги и клиента
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	require.NotNil(t, resp.ClientName)
	assert.Equal(t, "Петр Смирнов", *resp.ClientName)
	require.NotNil(t, resp.ClientPhone)
	assert.Equal(t, "+79001234567", *resp.ClientPhone)
}

func TestExecute_LocationTimeZone(t *testing.T) {
	catalog := testCatalog()
	catalog.locations[10].TimeZone = "Europe/Moscow"

	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo,
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		catalog, testClients(), testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// 10:00 МСК = 07:00 UTC
	assert.Equal(t, time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC), resp.ScheduledStart)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
}

func TestExecute_SlotConflict(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo,
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		testCatalog(), testClients(), testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Пересекающийся интервал того же мастера
	req := validRequest()
	req.ClientID = 5
	req.StartTime = "10:30"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Граничащий интервал проходит
	req = validRequest()
	req.StartTime = "11:00"
	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{{
			ID:             1,
			StaffID:        1,
			Status:         domain.StatusCancelledByClient,
			ScheduledStart: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
			ScheduledEnd:   time.Date(2026, 9, 15, 11, 0, 0, 0, time.UTC),
		}},
		nextID: 1,
	}

	uc := newTestUseCase(repo,
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		testCatalog(), testClients(), testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_BreakConflict(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{},
		&fakeScheduleRepo{
			rows:   workingWeek(1, "09:00", "18:00"),
			breaks: []*domain.Break{{StaffID: 1, Date: testDate, StartTime: "12:00", EndTime: "13:00"}},
		},
		testCatalog(), testClients(), testNow)

	req := validRequest()
	req.StartTime = "12:30"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Услуга, заканчивающаяся ровно в начало перерыва, проходит
	req = validRequest()
	req.StartTime = "11:00"
	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_BookingInPast(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{},
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		testCatalog(), testClients(),
		time.Date(2026, 9, 15, 11, 0, 0, 0, time.UTC))

	req := validRequest()
	req.StartTime = "10:00"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingInPast)

	// Начало ровно в текущий момент тоже считается прошедшим
	req.StartTime = "11:00"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingInPast)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{},
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "17:00")},
		testCatalog(), testClients(), testNow)

	tests := []struct {
		name      string
		startTime types.TimeString
		wantErr   error
	}{
		{name: "before open", startTime: "08:30", wantErr: ErrOutsideWorkingHours},
		{name: "ends after close", startTime: "16:30", wantErr: ErrOutsideWorkingHours},
		{name: "ends exactly at close", startTime: "16:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartTime = tt.startTime
			_, err := uc.Execute(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecute_StaffNotWorking(t *testing.T) {
	rows := map[time.Weekday]*domain.WeeklyScheduleRow{
		testDate.Weekday(): {StaffID: 1, Weekday: testDate.Weekday(), IsWorking: false},
	}

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{rows: rows},
		testCatalog(), testClients(), testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotWorking)
}

func TestExecute_StaffValidation(t *testing.T) {
	catalog := testCatalog()
	catalog.staff[2] = &catalogservice.Staff{
		ID: 2, FullName: "Мария Петрова", Active: true, BookableOnline: true,
		LocationIDs: []int64{99}, ServiceIDs: []int64{20},
	}
	catalog.staff[3] = &catalogservice.Staff{
		ID: 3, FullName: "Ольга Сидорова", Active: false, BookableOnline: true,
		LocationIDs: []int64{10}, ServiceIDs: []int64{20},
	}

	uc := newTestUseCase(&fakeBookingRepo{},
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		catalog, testClients(), testNow)

	req := validRequest()
	req.StaffID = 500
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)

	req = validRequest()
	req.StaffID = 2
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotAtLocation)

	req = validRequest()
	req.StaffID = 3
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotBookable)
}

func TestExecute_ClientNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{},
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		testCatalog(), testClients(), testNow)

	req := validRequest()
	req.ClientID = 500
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestExecute_ClientServiceDegraded(t *testing.T) {
	clients := testClients()
	clients.err = clientservice.ErrServiceDegraded

	uc := newTestUseCase(&fakeBookingRepo{},
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		testCatalog(), clients, testNow)

	// При недоступности ClientService бронирование создается
	// без денормализованных данных клиента
	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.ClientName)
	assert.Nil(t, resp.ClientPhone)
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo,
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		testCatalog(), testClients(), testNow)

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Ровно одна запись выигрывает гонку за слот
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Len(t, repo.bookings, 1)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{},
		&fakeScheduleRepo{rows: workingWeek(1, "09:00", "18:00")},
		testCatalog(), testClients(), testNow)

	req := validRequest()
	req.ClientID = 0
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = "25:00"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
