package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// UseCase use case для построения сетки доступности на день
type UseCase struct {
	bookingRepo     BookingRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogServiceClient
	timeProvider    TimeProvider
	logger          Logger
	slotStepMinutes int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
	slotStepMinutes int,
) *UseCase {
	if slotStepMinutes <= 0 {
		slotStepMinutes = domain.DefaultSlotStepMinutes
	}

	return &UseCase{
		bookingRepo:     bookingRepo,
		scheduleRepo:    scheduleRepo,
		catalogClient:   catalogClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		slotStepMinutes: slotStepMinutes,
	}
}

// Execute выполняет use case построения сетки доступности
//
// Сетка строится в два шага: для каждого подходящего мастера вычисляется
// его собственная сетка (рабочее окно, перерывы, активные бронирования),
// затем сетки объединяются по оси времени. Для прошедших дат возвращается
// полностью недоступная сетка, а не ошибка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: location=%d, service=%v, staff=%v, date=%s",
		req.LocationID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем салон и его часовой пояс
	location, err := uc.catalogClient.GetLocation(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrLocationNotFound) {
			uc.logger.Warn("GetAvailableSlots: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	loc, err := time.LoadLocation(location.TimeZone)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: location id=%d has invalid time zone %q: %v",
			req.LocationID, location.TimeZone, err)
		return nil, fmt.Errorf("%w: invalid location time zone: %v", ErrInternal, err)
	}

	// 4. Определяем длительность слота: из услуги или дефолтная
	durationMinutes := domain.DefaultServiceDurationMinutes
	if req.ServiceID != nil {
		service, err := uc.catalogClient.GetService(ctx, req.LocationID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if !service.AvailableAt(req.LocationID) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not available at location id=%d",
				*req.ServiceID, req.LocationID)
			return nil, ErrServiceNotAvailableAtLocation
		}

		if service.DurationMinutes > 0 {
			durationMinutes = service.DurationMinutes
		}
	}

	// 5. Определяем список мастеров: закрепленный или все подходящие
	staffList, err := uc.resolveStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(staffList) == 0 {
		uc.logger.Info("GetAvailableSlots: no eligible staff at location id=%d", req.LocationID)
		return uc.buildResponse(req, durationMinutes, []Slot{}), nil
	}

	staffIDs := make([]int64, 0, len(staffList))
	for _, staff := range staffList {
		staffIDs = append(staffIDs, staff.ID)
	}

	// 6. Получаем перерывы и активные бронирования всех мастеров одним
	// снимком на окно локального дня (включая переходы через полночь)
	breaks, err := uc.scheduleRepo.GetBreaksForStaff(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get breaks: %v", err)
		return nil, fmt.Errorf("%w: failed to get breaks: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetActiveByStaffBetween(ctx, staffIDs, domain.DayWindow(req.Date, loc))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	busyByStaff := make(map[int64][]domain.Interval, len(staffIDs))
	for _, b := range breaks {
		interval, err := breakInterval(b, req.Date, loc)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: invalid break id=%d for staff id=%d: %v", b.ID, b.StaffID, err)
			return nil, fmt.Errorf("%w: invalid break: %v", ErrInternal, err)
		}
		busyByStaff[b.StaffID] = append(busyByStaff[b.StaffID], interval)
	}
	for _, booking := range bookings {
		busyByStaff[booking.StaffID] = append(busyByStaff[booking.StaffID], booking.Interval())
	}

	// 7. Строим сетку каждого мастера в его рабочем окне
	grids := make(map[int64]map[types.TimeString]bool, len(staffList))
	for _, staff := range staffList {
		window, err := uc.resolveWorkingWindow(ctx, staff.ID, location, req.Date)
		if err != nil {
			return nil, err
		}
		if window.IsEmpty() {
			continue
		}

		candidates := generateCandidateStarts(window.OpenTime, window.CloseTime, durationMinutes, uc.slotStepMinutes)
		grid, err := evaluateStaffGrid(candidates, req.Date, durationMinutes, loc, now, busyByStaff[staff.ID])
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to evaluate grid for staff id=%d: %v", staff.ID, err)
			return nil, fmt.Errorf("%w: failed to evaluate slots: %v", ErrInternal, err)
		}

		grids[staff.ID] = grid
	}

	// 8. Объединяем сетки мастеров
	slots := mergeStaffGrids(grids, durationMinutes)

	uc.logger.Info("GetAvailableSlots: built %d slots for location=%d, date=%s, staff count=%d",
		len(slots), req.LocationID, req.Date.Format(domain.DateFormat), len(grids))

	return uc.buildResponse(req, durationMinutes, slots), nil
}

// resolveStaff определяет список мастеров для построения сетки
// Закрепленный мастер проверяется на привязку к салону, услуге и
// доступность онлайн-записи; иначе берутся все подходящие мастера салона
func (uc *UseCase) resolveStaff(ctx context.Context, req *Request) ([]catalogClient.Staff, error) {
	if req.StaffID != nil {
		staff, err := uc.catalogClient.GetStaff(ctx, *req.StaffID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrStaffNotFound) {
				uc.logger.Warn("GetAvailableSlots: staff id=%d not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		if !staff.WorksAt(req.LocationID) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d does not work at location id=%d",
				*req.StaffID, req.LocationID)
			return nil, ErrStaffNotAtLocation
		}
		if req.ServiceID != nil && !staff.Offers(*req.ServiceID) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d does not provide service id=%d",
				*req.StaffID, *req.ServiceID)
			return nil, ErrStaffServiceMismatch
		}
		if !staff.Bookable() {
			uc.logger.Warn("GetAvailableSlots: staff id=%d is not bookable online", *req.StaffID)
			return nil, ErrStaffNotBookable
		}

		return []catalogClient.Staff{*staff}, nil
	}

	allStaff, err := uc.catalogClient.ListStaffByLocation(ctx, req.LocationID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list staff for location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	eligible := make([]catalogClient.Staff, 0, len(allStaff))
	for _, staff := range allStaff {
		if !staff.Bookable() {
			continue
		}
		if req.ServiceID != nil && !staff.Offers(*req.ServiceID) {
			continue
		}
		eligible = append(eligible, staff)
	}

	return eligible, nil
}

// resolveWorkingWindow определяет рабочее окно мастера на дату
// Цепочка фолбэков: персональное расписание мастера -> часы работы
// салона на этот день недели -> дефолтное окно
func (uc *UseCase) resolveWorkingWindow(
	ctx context.Context,
	staffID int64,
	location *catalogClient.Location,
	date time.Time,
) (domain.WorkingWindow, error) {
	weekday := date.Weekday()

	row, err := uc.scheduleRepo.GetByWeekday(ctx, staffID, weekday)
	if err == nil {
		return domain.WorkingWindow{
			StaffID:   staffID,
			Date:      date,
			OpenTime:  row.OpenTime,
			CloseTime: row.CloseTime,
			IsWorking: row.IsWorking,
		}, nil
	}
	if !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get schedule for staff id=%d: %v", staffID, err)
		return domain.WorkingWindow{}, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	day := locationDaySchedule(location, weekday)
	if !day.IsOpen {
		return domain.WorkingWindow{StaffID: staffID, Date: date, IsWorking: false}, nil
	}

	openTime := types.TimeString(domain.DefaultOpenTime)
	closeTime := types.TimeString(domain.DefaultCloseTime)
	if day.OpenTime != nil && day.CloseTime != nil {
		openTime = types.TimeString(*day.OpenTime)
		closeTime = types.TimeString(*day.CloseTime)
	}

	return domain.WorkingWindow{
		StaffID:   staffID,
		Date:      date,
		OpenTime:  openTime,
		CloseTime: closeTime,
		IsWorking: true,
	}, nil
}

func (uc *UseCase) buildResponse(req *Request, durationMinutes int, slots []Slot) *Response {
	return &Response{
		Date:            req.Date,
		LocationID:      req.LocationID,
		ServiceID:       req.ServiceID,
		StaffID:         req.StaffID,
		DurationMinutes: durationMinutes,
		Slots:           slots,
	}
}
