package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/internal/service/schedule/models"
	"github.com/m04kA/SLN-BookingService/pkg/ptr"
)

// Фейки контрактов сервиса

type fakeScheduleRepo struct {
	rows   map[int64][]*domain.WeeklyScheduleRow
	breaks map[int64][]*domain.Break
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		rows:   make(map[int64][]*domain.WeeklyScheduleRow),
		breaks: make(map[int64][]*domain.Break),
	}
}

func (f *fakeScheduleRepo) GetWeekly(_ context.Context, staffID int64) ([]*domain.WeeklyScheduleRow, error) {
	return f.rows[staffID], nil
}

func (f *fakeScheduleRepo) ReplaceWeekly(_ context.Context, staffID int64, rows []*domain.WeeklyScheduleRow) error {
	f.rows[staffID] = rows
	return nil
}

func (f *fakeScheduleRepo) GetBreaks(_ context.Context, staffID int64, date time.Time) ([]*domain.Break, error) {
	result := make([]*domain.Break, 0)
	for _, b := range f.breaks[staffID] {
		if b.Date.Format(domain.DateFormat) == date.Format(domain.DateFormat) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeScheduleRepo) ReplaceBreaks(_ context.Context, staffID int64, date time.Time, breaks []*domain.Break) error {
	kept := make([]*domain.Break, 0)
	for _, b := range f.breaks[staffID] {
		if b.Date.Format(domain.DateFormat) != date.Format(domain.DateFormat) {
			kept = append(kept, b)
		}
	}
	for _, b := range breaks {
		b.Date = date
		kept = append(kept, b)
	}
	f.breaks[staffID] = kept
	return nil
}

type fakeCatalogClient struct {
	locations map[int64]*catalogservice.Location
	staff     map[int64]*catalogservice.Staff
}

func (f *fakeCatalogClient) GetLocation(_ context.Context, locationID int64) (*catalogservice.Location, error) {
	if location, ok := f.locations[locationID]; ok {
		return location, nil
	}
	return nil, catalogservice.ErrLocationNotFound
}

func (f *fakeCatalogClient) GetStaff(_ context.Context, staffID int64) (*catalogservice.Staff, error) {
	if staff, ok := f.staff[staffID]; ok {
		return staff, nil
	}
	return nil, catalogservice.ErrStaffNotFound
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Общие данные сценариев

const (
	staffID   = int64(1)
	managerID = int64(100)
	otherID   = int64(777)
)

func testCatalog() *fakeCatalogClient {
	return &fakeCatalogClient{
		locations: map[int64]*catalogservice.Location{
			10: {ID: 10, Name: "Салон на Арбате", TimeZone: "Europe/Moscow", ManagerIDs: []int64{managerID}},
		},
		staff: map[int64]*catalogservice.Staff{
			staffID: {ID: staffID, FullName: "Анна Иванова", Active: true, BookableOnline: true, LocationIDs: []int64{10}},
		},
	}
}

func workingDays() []models.ScheduleDayInput {
	days := make([]models.ScheduleDayInput, 0, 7)
	for wd := 0; wd <= 6; wd++ {
		if wd == 0 {
			// Воскресенье - выходной
			days = append(days, models.ScheduleDayInput{Weekday: wd, IsWorking: false})
			continue
		}
		days = append(days, models.ScheduleDayInput{
			Weekday:   wd,
			IsWorking: true,
			OpenTime:  ptr.Ptr("09:00"),
			CloseTime: ptr.Ptr("17:00"),
		})
	}
	return days
}

func newTestService(repo *fakeScheduleRepo) *Service {
	return NewService(repo, testCatalog(), fakeTxManager{}, nopLogger{})
}

func TestReplaceSchedule_Success(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)

	// 15 сентября 2026 - вторник, рабочий день
	resp, err := svc.ReplaceSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:  managerID,
		StaffID: staffID,
		Days:    workingDays(),
		Breaks: []models.BreakInput{
			{Date: "2026-09-15", StartTime: "12:00", EndTime: "13:00", Label: ptr.Ptr("обед")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, staffID, resp.StaffID)
	require.Len(t, resp.Days, 7)
	assert.Len(t, repo.rows[staffID], 7)
	require.Len(t, repo.breaks[staffID], 1)
	assert.Equal(t, "2026-09-15", repo.breaks[staffID][0].Date.Format(domain.DateFormat))
}

func TestReplaceSchedule_AccessControl(t *testing.T) {
	svc := newTestService(newFakeScheduleRepo())

	_, err := svc.ReplaceSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:  otherID,
		StaffID: staffID,
		Days:    workingDays(),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.ReplaceSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:  managerID,
		StaffID: 500,
		Days:    workingDays(),
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestReplaceSchedule_Validation(t *testing.T) {
	svc := newTestService(newFakeScheduleRepo())

	tests := []struct {
		name    string
		days    []models.ScheduleDayInput
		breaks  []models.BreakInput
		wantErr error
	}{
		{
			name:    "weekday out of range",
			days:    []models.ScheduleDayInput{{Weekday: 7, IsWorking: false}},
			wantErr: ErrInvalidInput,
		},
		{
			name: "duplicate weekday",
			days: []models.ScheduleDayInput{
				{Weekday: 1, IsWorking: false},
				{Weekday: 1, IsWorking: false},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "open after close",
			days: []models.ScheduleDayInput{
				{Weekday: 1, IsWorking: true, OpenTime: ptr.Ptr("18:00"), CloseTime: ptr.Ptr("09:00")},
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "working day without hours",
			days: []models.ScheduleDayInput{
				{Weekday: 1, IsWorking: true},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "break start after end",
			days: workingDays(),
			breaks: []models.BreakInput{
				{Date: "2026-09-15", StartTime: "14:00", EndTime: "13:00"},
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "break outside working window",
			days: workingDays(),
			breaks: []models.BreakInput{
				{Date: "2026-09-15", StartTime: "08:00", EndTime: "09:30"},
			},
			wantErr: ErrBreakOutsideWindow,
		},
		{
			// 20 сентября 2026 - воскресенье
			name: "break on a day off",
			days: workingDays(),
			breaks: []models.BreakInput{
				{Date: "2026-09-20", StartTime: "12:00", EndTime: "13:00"},
			},
			wantErr: ErrBreakOutsideWindow,
		},
		{
			name: "bad break date",
			days: workingDays(),
			breaks: []models.BreakInput{
				{Date: "15.09.2026", StartTime: "12:00", EndTime: "13:00"},
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReplaceSchedule(context.Background(), &models.UpdateScheduleRequest{
				UserID:  managerID,
				StaffID: staffID,
				Days:    tt.days,
				Breaks:  tt.breaks,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetSchedule(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.rows[staffID] = []*domain.WeeklyScheduleRow{
		{StaffID: staffID, Weekday: time.Tuesday, OpenTime: "09:00", CloseTime: "17:00", IsWorking: true},
	}
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	repo.breaks[staffID] = []*domain.Break{
		{StaffID: staffID, Date: date, StartTime: "12:00", EndTime: "13:00"},
	}

	svc := newTestService(repo)

	// Без даты перерывы не возвращаются
	resp, err := svc.GetSchedule(context.Background(), staffID, nil)
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, 2, resp.Days[0].Weekday)
	require.NotNil(t, resp.Days[0].OpenTime)
	assert.Equal(t, "09:00", *resp.Days[0].OpenTime)
	assert.Empty(t, resp.Breaks)

	resp, err = svc.GetSchedule(context.Background(), staffID, &date)
	require.NoError(t, err)
	require.Len(t, resp.Breaks, 1)
	assert.Equal(t, "12:00", resp.Breaks[0].StartTime)

	_, err = svc.GetSchedule(context.Background(), 500, nil)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
