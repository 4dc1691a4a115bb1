package get_available_slots

import "errors"

var (
	// ErrLocationNotFound возвращается, когда салон не найден
	ErrLocationNotFound = errors.New("location not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceNotAvailableAtLocation возвращается, когда услуга не оказывается в этом салоне
	ErrServiceNotAvailableAtLocation = errors.New("service is not available at this location")

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrStaffNotAtLocation возвращается, когда мастер не работает в этом салоне
	ErrStaffNotAtLocation = errors.New("staff member does not work at this location")

	// ErrStaffServiceMismatch возвращается, когда мастер не оказывает запрошенную услугу
	ErrStaffServiceMismatch = errors.New("staff member does not provide this service")

	// ErrStaffNotBookable возвращается, когда мастер недоступен для онлайн-записи
	ErrStaffNotBookable = errors.New("staff member is not bookable online")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
