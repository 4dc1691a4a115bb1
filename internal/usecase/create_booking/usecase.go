package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	bookingStorage "github.com/m04kA/SLN-BookingService/internal/infra/storage/booking"
	scheduleStorage "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	clientClient "github.com/m04kA/SLN-BookingService/internal/integrations/clientservice"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	scheduleRepo  ScheduleRepository
	catalogClient CatalogServiceClient
	clientClient  ClientServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	clientClient ClientServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		scheduleRepo:  scheduleRepo,
		catalogClient: catalogClient,
		clientClient:  clientClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
//
// Повторная проверка пересечений и вставка выполняются в сериализуемой
// транзакции с блокировкой строк мастера (FOR UPDATE). Проигравшая
// конкурентная запись получает ErrSlotConflict - либо от повторной
// проверки, либо от exclusion constraint / serialization failure БД
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, location=%d, staff=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.LocationID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем салон и его часовой пояс
	location, err := uc.catalogClient.GetLocation(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrLocationNotFound) {
			uc.logger.Warn("CreateBooking: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("CreateBooking: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	loc, err := time.LoadLocation(location.TimeZone)
	if err != nil {
		uc.logger.Error("CreateBooking: location id=%d has invalid time zone %q: %v",
			req.LocationID, location.TimeZone, err)
		return nil, fmt.Errorf("%w: invalid location time zone: %v", ErrInternal, err)
	}

	// 4. Получаем мастера и проверяем его привязки
	staff, err := uc.catalogClient.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.WorksAt(req.LocationID) {
		uc.logger.Warn("CreateBooking: staff id=%d does not work at location id=%d", req.StaffID, req.LocationID)
		return nil, ErrStaffNotAtLocation
	}
	if !staff.Offers(req.ServiceID) {
		uc.logger.Warn("CreateBooking: staff id=%d does not provide service id=%d", req.StaffID, req.ServiceID)
		return nil, ErrStaffServiceMismatch
	}
	if !staff.Bookable() {
		uc.logger.Warn("CreateBooking: staff id=%d is not bookable online", req.StaffID)
		return nil, ErrStaffNotBookable
	}

	// 5. Получаем услугу
	service, err := uc.catalogClient.GetService(ctx, req.LocationID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.AvailableAt(req.LocationID) {
		uc.logger.Warn("CreateBooking: service id=%d not available at location id=%d",
			req.ServiceID, req.LocationID)
		return nil, ErrServiceNotAvailableAtLocation
	}

	durationMinutes := service.DurationMinutes
	if durationMinutes <= 0 {
		durationMinutes = domain.DefaultServiceDurationMinutes
	}

	// 6. Получаем данные клиента для денормализации
	// При недоступности ClientService бронирование создается без них
	clientRecord, err := uc.clientClient.GetClientWithGracefulDegradation(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, clientClient.ErrClientNotFound) {
			uc.logger.Warn("CreateBooking: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Warn("CreateBooking: clientservice degraded for client id=%d: %v", req.ClientID, err)
		clientRecord = nil
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Определяем рабочее окно мастера на дату
		window, err := uc.resolveWorkingWindow(txCtx, req.StaffID, location, req.Date)
		if err != nil {
			return err
		}
		if window.IsEmpty() {
			uc.logger.Warn("CreateBooking: staff id=%d is not working on %s",
				req.StaffID, req.Date.Format(domain.DateFormat))
			return ErrStaffNotWorking
		}

		// 7.2. Строим интервал бронирования в UTC
		interval, err := domain.IntervalFromLocal(req.Date, req.StartTime, durationMinutes, loc)
		if err != nil {
			return fmt.Errorf("%w: invalid booking time: %v", ErrInvalidInput, err)
		}

		// 7.3. Время начала должно быть в будущем
		if !interval.Start.After(now) {
			uc.logger.Warn("CreateBooking: booking time %s %s is in the past",
				req.Date.Format(domain.DateFormat), req.StartTime)
			return ErrBookingInPast
		}

		// 7.4. Услуга должна целиком помещаться в рабочее окно
		// (окончание ровно в закрытие - допустимо)
		if err := validateFitsWindow(req.StartTime, durationMinutes, window); err != nil {
			uc.logger.Warn("CreateBooking: slot %s+%dm is outside window %s-%s",
				req.StartTime, durationMinutes, window.OpenTime, window.CloseTime)
			return err
		}

		// 7.5. Проверяем пересечение с перерывами мастера
		breaks, err := uc.scheduleRepo.GetBreaks(txCtx, req.StaffID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get breaks: %v", err)
			return fmt.Errorf("%w: failed to get breaks: %v", ErrInternal, err)
		}

		for _, b := range breaks {
			breakIv, err := breakInterval(b, req.Date, loc)
			if err != nil {
				uc.logger.Error("CreateBooking: invalid break id=%d: %v", b.ID, err)
				return fmt.Errorf("%w: invalid break: %v", ErrInternal, err)
			}
			if interval.Overlaps(breakIv) {
				uc.logger.Warn("CreateBooking: slot overlaps break id=%d (%s-%s)", b.ID, b.StartTime, b.EndTime)
				return ErrSlotConflict
			}
		}

		// 7.6. Повторная проверка пересечений с блокировкой строк мастера
		existing, err := uc.bookingRepo.GetActiveByStaffIntersecting(txCtx, req.StaffID, interval)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get intersecting bookings: %v", err)
			return fmt.Errorf("%w: failed to get intersecting bookings: %v", ErrInternal, err)
		}

		if len(existing) > 0 {
			uc.logger.Warn("CreateBooking: staff id=%d already has booking id=%d in this interval",
				req.StaffID, existing[0].ID)
			return ErrSlotConflict
		}

		// 7.7. Создаем бронирование с денормализацией данных
		booking := &domain.Booking{
			ClientID:        req.ClientID,
			StaffID:         req.StaffID,
			LocationID:      req.LocationID,
			ServiceID:       req.ServiceID,
			ScheduledStart:  interval.Start,
			ScheduledEnd:    interval.End,
			DurationMinutes: durationMinutes,
			Status:          domain.StatusBooked,
			// Денормализация данных услуги
			ServiceName:  service.Name,
			ServicePrice: getServicePrice(service),
			// Заметки
			Notes: req.Notes,
		}

		// Денормализация данных клиента (если ClientService доступен)
		if clientRecord != nil {
			booking.ClientName = &clientRecord.FullName
			booking.ClientPhone = &clientRecord.Phone
		}

		// 7.8. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingStorage.ErrSlotConflict) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected slot for staff id=%d", req.StaffID)
				return ErrSlotConflict
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигравшая сериализуемая транзакция - тот же конфликт слота
		if bookingStorage.IsSerializationFailure(err) {
			uc.logger.Warn("CreateBooking: serialization failure for staff id=%d, slot already taken", req.StaffID)
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		ClientID:        result.ClientID,
		StaffID:         result.StaffID,
		LocationID:      result.LocationID,
		ServiceID:       result.ServiceID,
		Date:            req.Date,
		StartTime:       types.NewTimeString(result.ScheduledStart.In(loc)),
		ScheduledStart:  result.ScheduledStart,
		ScheduledEnd:    result.ScheduledEnd,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		ClientName:      result.ClientName,
		ClientPhone:     result.ClientPhone,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
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
	if !errors.Is(err, scheduleStorage.ErrScheduleNotFound) {
		uc.logger.Error("CreateBooking: failed to get schedule for staff id=%d: %v", staffID, err)
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

// validateFitsWindow проверяет, что услуга помещается в рабочее окно мастера
func validateFitsWindow(start types.TimeString, durationMinutes int, window domain.WorkingWindow) error {
	if start.IsBefore(window.OpenTime) {
		return ErrOutsideWorkingHours
	}

	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		// Переход через полночь - заведомо за пределами окна
		return ErrOutsideWorkingHours
	}
	if end.IsAfter(window.CloseTime) {
		return ErrOutsideWorkingHours
	}

	return nil
}

// breakInterval переводит перерыв мастера в UTC-интервал конкретной даты
func breakInterval(b *domain.Break, date time.Time, loc *time.Location) (domain.Interval, error) {
	startMinutes, err := b.StartTime.MinutesFromMidnight()
	if err != nil {
		return domain.Interval{}, err
	}
	endMinutes, err := b.EndTime.MinutesFromMidnight()
	if err != nil {
		return domain.Interval{}, err
	}

	return domain.IntervalFromLocal(date, b.StartTime, endMinutes-startMinutes, loc)
}

// locationDaySchedule возвращает режим работы салона на указанный день недели
func locationDaySchedule(location *catalogClient.Location, weekday time.Weekday) catalogClient.DaySchedule {
	switch weekday {
	case time.Monday:
		return location.WorkingHours.Monday
	case time.Tuesday:
		return location.WorkingHours.Tuesday
	case time.Wednesday:
		return location.WorkingHours.Wednesday
	case time.Thursday:
		return location.WorkingHours.Thursday
	case time.Friday:
		return location.WorkingHours.Friday
	case time.Saturday:
		return location.WorkingHours.Saturday
	case time.Sunday:
		return location.WorkingHours.Sunday
	default:
		return catalogClient.DaySchedule{IsOpen: false}
	}
}

// getServicePrice извлекает цену из услуги
// Если цена не указана (nil), возвращает 0.0
func getServicePrice(service *catalogClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
