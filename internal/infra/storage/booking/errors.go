package booking

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotConflict возвращается, когда интервал пересекается с активным
	// бронированием мастера (exclusion constraint bookings_no_staff_overlap)
	ErrSlotConflict = errors.New("booking.repository: slot conflicts with an existing booking")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)

// Коды SQLSTATE, означающие проигранную гонку за слот
const (
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
)

// IsSerializationFailure возвращает true, если SERIALIZABLE транзакция
// не смогла закоммититься из-за конкурентной записи. Для вызывающего кода
// это эквивалентно конфликту слота: повторная проверка доступности обязательна
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgSerializationFailure
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgExclusionViolation
}
