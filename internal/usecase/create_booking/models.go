package create_booking

import (
	"time"

	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID   int64            // ID клиента (из контекста авторизации)
	LocationID int64            // ID салона
	StaffID    int64            // ID мастера
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала в поясе салона (например, "10:00")
	Notes      *string          // Заметки клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	ClientID        int64
	StaffID         int64
	LocationID      int64
	ServiceID       int64
	Date            time.Time        // Дата в поясе салона
	StartTime       types.TimeString // Время начала в поясе салона
	ScheduledStart  time.Time        // Момент начала (UTC)
	ScheduledEnd    time.Time        // Момент окончания (UTC)
	DurationMinutes int
	Status          string
	ServiceName     string
	ServicePrice    float64
	ClientName      *string
	ClientPhone     *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
