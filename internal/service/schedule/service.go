package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/internal/service/schedule/models"
)

// Service сервис для работы с расписаниями мастеров
type Service struct {
	scheduleRepo  ScheduleRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:  scheduleRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// GetSchedule получает настроенное недельное расписание мастера
// При указании даты дополнительно возвращает перерывы на эту дату.
// Возвращает только то, что мастер настроил сам: фолбэк на часы салона
// применяется при расчете доступности, а не здесь
func (s *Service) GetSchedule(ctx context.Context, staffID int64, date *time.Time) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for staff=%d, date=%v", staffID, date)

	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	// Проверяем существование мастера
	if _, err := s.catalogClient.GetStaff(ctx, staffID); err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			s.logger.Warn("GetSchedule: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetSchedule: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetSchedule - failed to get staff: %v", ErrInternal, err)
	}

	rows, err := s.scheduleRepo.GetWeekly(ctx, staffID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	var breaks []*domain.Break
	if date != nil {
		breaks, err = s.scheduleRepo.GetBreaks(ctx, staffID, *date)
		if err != nil {
			s.logger.Error("GetSchedule: failed to get breaks for staff=%d: %v", staffID, err)
			return nil, fmt.Errorf("%w: GetSchedule - failed to get breaks: %v", ErrInternal, err)
		}
	}

	s.logger.Info("GetSchedule: fetched %d days, %d breaks for staff=%d", len(rows), len(breaks), staffID)
	return models.FromDomainSchedule(staffID, rows, breaks), nil
}

// ReplaceSchedule полностью заменяет недельное расписание мастера
// и перерывы на перечисленные в запросе даты
// Доступно только менеджерам салонов, где работает мастер
func (s *Service) ReplaceSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("ReplaceSchedule: replacing schedule for staff=%d by user=%d, days=%d, breaks=%d",
		req.StaffID, req.UserID, len(req.Days), len(req.Breaks))

	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	// Получаем мастера и проверяем права менеджера
	staff, err := s.catalogClient.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			s.logger.Warn("ReplaceSchedule: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("ReplaceSchedule: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - failed to get staff: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, staff, req.UserID); err != nil {
		return nil, err
	}

	// Валидируем строки расписания и перерывы
	rows := req.ToDomainRows()
	if err := validateScheduleRows(rows); err != nil {
		s.logger.Warn("ReplaceSchedule: invalid schedule for staff=%d: %v", req.StaffID, err)
		return nil, err
	}

	breaksByDate, err := req.BreaksByDate()
	if err != nil {
		s.logger.Warn("ReplaceSchedule: invalid break date for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: invalid break date: %v", ErrInvalidInput, err)
	}
	if err := validateBreaks(breaksByDate, rows); err != nil {
		s.logger.Warn("ReplaceSchedule: invalid breaks for staff=%d: %v", req.StaffID, err)
		return nil, err
	}

	// Заменяем расписание и перерывы атомарно
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.ReplaceWeekly(txCtx, req.StaffID, rows); err != nil {
			return fmt.Errorf("%w: ReplaceSchedule - replace weekly: %v", ErrInternal, err)
		}

		for dateStr, breaks := range breaksByDate {
			date, err := time.Parse(domain.DateFormat, dateStr)
			if err != nil {
				return fmt.Errorf("%w: invalid break date: %v", ErrInvalidInput, err)
			}
			if err := s.scheduleRepo.ReplaceBreaks(txCtx, req.StaffID, date, breaks); err != nil {
				return fmt.Errorf("%w: ReplaceSchedule - replace breaks: %v", ErrInternal, err)
			}
		}

		return nil
	})

	if err != nil {
		s.logger.Error("ReplaceSchedule: transaction failed for staff=%d: %v", req.StaffID, err)
		return nil, err
	}

	s.logger.Info("ReplaceSchedule: successfully replaced schedule for staff=%d", req.StaffID)
	return s.GetSchedule(ctx, req.StaffID, nil)
}

// checkManagerAccess проверяет, что пользователь является менеджером
// хотя бы одного салона, где работает мастер
func (s *Service) checkManagerAccess(ctx context.Context, staff *catalogClient.Staff, userID int64) error {
	for _, locationID := range staff.LocationIDs {
		location, err := s.catalogClient.GetLocation(ctx, locationID)
		if err != nil {
			s.logger.Warn("checkManagerAccess: failed to get location id=%d: %v", locationID, err)
			continue
		}

		for _, managerID := range location.ManagerIDs {
			if managerID == userID {
				s.logger.Info("checkManagerAccess: user=%d is manager of location=%d", userID, locationID)
				return nil
			}
		}
	}

	s.logger.Warn("checkManagerAccess: user=%d is not a manager of any location of staff=%d", userID, staff.ID)
	return ErrAccessDenied
}

// validateScheduleRows проверяет корректность строк недельного расписания
func validateScheduleRows(rows []*domain.WeeklyScheduleRow) error {
	seen := make(map[time.Weekday]bool, len(rows))

	for _, row := range rows {
		if row.Weekday < 0 || row.Weekday > 6 {
			return fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
		}
		if seen[row.Weekday] {
			return fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, row.Weekday)
		}
		seen[row.Weekday] = true

		if !row.IsWorking {
			continue
		}

		if err := row.OpenTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid open time for weekday %d: %v", ErrInvalidInput, row.Weekday, err)
		}
		if err := row.CloseTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid close time for weekday %d: %v", ErrInvalidInput, row.Weekday, err)
		}
		if !row.OpenTime.IsBefore(row.CloseTime) {
			return fmt.Errorf("%w: open time must be before close time for weekday %d", ErrInvalidTimeRange, row.Weekday)
		}
	}

	return nil
}

// validateBreaks проверяет корректность перерывов
// Перерыв должен лежать внутри рабочего окна своего дня недели
func validateBreaks(breaksByDate map[string][]*domain.Break, rows []*domain.WeeklyScheduleRow) error {
	windows := make(map[time.Weekday]*domain.WeeklyScheduleRow, len(rows))
	for _, row := range rows {
		windows[row.Weekday] = row
	}

	for dateStr, breaks := range breaksByDate {
		if len(breaks) > domain.MaxBreaksPerDay {
			return fmt.Errorf("%w: at most %d breaks per day", ErrInvalidInput, domain.MaxBreaksPerDay)
		}

		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return fmt.Errorf("%w: invalid break date %q", ErrInvalidInput, dateStr)
		}

		for _, b := range breaks {
			if err := b.StartTime.Validate(); err != nil {
				return fmt.Errorf("%w: invalid break start time: %v", ErrInvalidInput, err)
			}
			if err := b.EndTime.Validate(); err != nil {
				return fmt.Errorf("%w: invalid break end time: %v", ErrInvalidInput, err)
			}
			if !b.StartTime.IsBefore(b.EndTime) {
				return fmt.Errorf("%w: break start must be before break end", ErrInvalidTimeRange)
			}

			row, ok := windows[date.Weekday()]
			if !ok || !row.IsWorking {
				return fmt.Errorf("%w: break on %s falls on a non-working day", ErrBreakOutsideWindow, dateStr)
			}
			if b.StartTime.IsBefore(row.OpenTime) || b.EndTime.IsAfter(row.CloseTime) {
				return fmt.Errorf("%w: break %s-%s on %s", ErrBreakOutsideWindow, b.StartTime, b.EndTime, dateStr)
			}
		}
	}

	return nil
}
