package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/internal/service/bookings/models"
)

// Фейки контрактов сервиса

type fakeBookingRepo struct {
	bookings     map[int64]*domain.Booking
	cancelled    map[int64]domain.BookingStatus
	statusUpdate map[int64]domain.BookingStatus
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{
		bookings:     make(map[int64]*domain.Booking),
		cancelled:    make(map[int64]domain.BookingStatus),
		statusUpdate: make(map[int64]domain.BookingStatus),
	}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByClientID(_ context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.ClientID != clientID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByLocationWithFilter(_ context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.LocationID != filter.LocationID {
			continue
		}
		if filter.StaffID != nil && b.StaffID != *filter.StaffID {
			continue
		}
		if filter.StartDate != nil && !b.ScheduledEnd.After(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && !b.ScheduledStart.Before(*filter.EndDate) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.Status == nil && !filter.IncludeInactive && (b.IsCancelled() || b.Status == domain.StatusNoShow) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.statusUpdate[id] = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, _ string) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.cancelled[id] = status
	return nil
}

type fakeCatalogClient struct {
	locations map[int64]*catalogservice.Location
}

func (f *fakeCatalogClient) GetLocation(_ context.Context, locationID int64) (*catalogservice.Location, error) {
	if location, ok := f.locations[locationID]; ok {
		return location, nil
	}
	return nil, catalogservice.ErrLocationNotFound
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Общие данные сценариев

const (
	clientID  = int64(5)
	managerID = int64(100)
	otherID   = int64(777)
)

func testCatalog() *fakeCatalogClient {
	return &fakeCatalogClient{
		locations: map[int64]*catalogservice.Location{
			10: {ID: 10, Name: "Салон на Арбате", TimeZone: "Europe/Moscow", ManagerIDs: []int64{managerID}},
		},
	}
}

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		ClientID:        clientID,
		StaffID:         1,
		LocationID:      10,
		ServiceID:       20,
		ScheduledStart:  time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC),
		ScheduledEnd:    time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          status,
		ServiceName:     "Стрижка",
		ServicePrice:    1500,
	}
}

func TestGetByID_AccessControl(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusBooked))
	svc := NewService(repo, testCatalog(), nopLogger{})

	// Владелец видит свое бронирование
	resp, err := svc.GetByID(context.Background(), 1, clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	// Менеджер салона видит любое бронирование салона
	_, err = svc.GetByID(context.Background(), 1, managerID)
	require.NoError(t, err)

	// Посторонний пользователь получает отказ
	_, err = svc.GetByID(context.Background(), 1, otherID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 500, clientID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_FormatsInLocationTimeZone(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusBooked))
	svc := NewService(repo, testCatalog(), nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1, clientID)
	require.NoError(t, err)

	// 07:00 UTC = 10:00 МСК
	assert.Equal(t, "2026-09-15", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "2026-09-15T07:00:00Z", resp.ScheduledStart)
	assert.Equal(t, "2026-09-15T08:00:00Z", resp.ScheduledEnd)
}

func TestGetClientBookings(t *testing.T) {
	booked := testBooking(1, domain.StatusBooked)
	completed := testBooking(2, domain.StatusCompleted)
	repo := newFakeBookingRepo(booked, completed)
	svc := NewService(repo, testCatalog(), nopLogger{})

	resp, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{ClientID: clientID})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	status := "completed"
	resp, err = svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{ClientID: clientID, Status: &status})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(2), resp.Bookings[0].ID)

	bogus := "bogus"
	_, err = svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{ClientID: clientID, Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetLocationBookings_ManagerOnly(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusBooked))
	svc := NewService(repo, testCatalog(), nopLogger{})

	resp, err := svc.GetLocationBookings(context.Background(), &models.GetLocationBookingsRequest{
		UserID:     managerID,
		LocationID: 10,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	_, err = svc.GetLocationBookings(context.Background(), &models.GetLocationBookingsRequest{
		UserID:     clientID,
		LocationID: 10,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetLocationBookings(context.Background(), &models.GetLocationBookingsRequest{
		UserID:     managerID,
		LocationID: 500,
	})
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestGetLocationBookings_ExcludesInactiveByDefault(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusBooked),
		testBooking(2, domain.StatusCancelledByClient),
		testBooking(3, domain.StatusNoShow),
	)
	svc := NewService(repo, testCatalog(), nopLogger{})

	resp, err := svc.GetLocationBookings(context.Background(), &models.GetLocationBookingsRequest{
		UserID:     managerID,
		LocationID: 10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	resp, err = svc.GetLocationBookings(context.Background(), &models.GetLocationBookingsRequest{
		UserID:          managerID,
		LocationID:      10,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3)
}

func TestCancel_StatusDependsOnActor(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusBooked), testBooking(2, domain.StatusConfirmed))
	svc := NewService(repo, testCatalog(), nopLogger{})

	// Владелец отменяет от имени клиента
	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: clientID, CancellationReason: "передумал"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByClient, repo.cancelled[1])

	// Менеджер отменяет от имени салона
	err = svc.Cancel(context.Background(), 2, &models.CancelBookingRequest{UserID: managerID, CancellationReason: "мастер заболел"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledBySalon, repo.cancelled[2])
}

func TestCancel_Denied(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusBooked),
		testBooking(2, domain.StatusCompleted),
	)
	svc := NewService(repo, testCatalog(), nopLogger{})

	// Посторонний пользователь не может отменить чужое бронирование
	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: otherID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Завершенное бронирование уже не отменить
	err = svc.Cancel(context.Background(), 2, &models.CancelBookingRequest{UserID: clientID})
	assert.ErrorIs(t, err, ErrCannotCancel)

	err = svc.Cancel(context.Background(), 500, &models.CancelBookingRequest{UserID: clientID})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusBooked))
	svc := NewService(repo, testCatalog(), nopLogger{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: managerID, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, repo.statusUpdate[1])
}

func TestUpdateStatus_Errors(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusBooked),
		testBooking(2, domain.StatusCompleted),
	)
	svc := NewService(repo, testCatalog(), nopLogger{})

	// Смена статуса доступна только менеджеру салона
	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: clientID, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: managerID, Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Пропуск шага машины состояний
	err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: managerID, Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Терминальное состояние замкнуто
	err = svc.UpdateStatus(context.Background(), 2, &models.UpdateStatusRequest{UserID: managerID, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = svc.UpdateStatus(context.Background(), 500, &models.UpdateStatusRequest{UserID: managerID, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
