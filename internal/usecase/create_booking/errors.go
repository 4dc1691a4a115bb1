package create_booking

import "errors"

var (
	// ErrLocationNotFound возвращается, когда салон не найден
	ErrLocationNotFound = errors.New("create_booking: location not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceNotAvailableAtLocation возвращается, когда услуга не оказывается в этом салоне
	ErrServiceNotAvailableAtLocation = errors.New("create_booking: service is not available at this location")

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrStaffNotAtLocation возвращается, когда мастер не работает в этом салоне
	ErrStaffNotAtLocation = errors.New("create_booking: staff member does not work at this location")

	// ErrStaffServiceMismatch возвращается, когда мастер не оказывает запрошенную услугу
	ErrStaffServiceMismatch = errors.New("create_booking: staff member does not provide this service")

	// ErrStaffNotBookable возвращается, когда мастер недоступен для онлайн-записи
	ErrStaffNotBookable = errors.New("create_booking: staff member is not bookable online")

	// ErrStaffNotWorking возвращается, когда мастер не работает в указанную дату
	ErrStaffNotWorking = errors.New("create_booking: staff member is not working on this date")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrBookingInPast возвращается, когда время начала уже прошло
	ErrBookingInPast = errors.New("create_booking: booking time is in the past")

	// ErrOutsideWorkingHours возвращается, когда услуга не помещается в рабочее окно мастера
	ErrOutsideWorkingHours = errors.New("create_booking: booking is outside working hours")

	// ErrSlotConflict возвращается, когда слот пересекается с перерывом
	// или другим активным бронированием мастера
	ErrSlotConflict = errors.New("create_booking: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
