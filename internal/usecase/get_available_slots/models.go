package get_available_slots

import (
	"time"

	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Request модель запроса на получение сетки доступности
type Request struct {
	LocationID int64     // ID салона
	ServiceID  *int64    // ID услуги (опционально, определяет длительность слота)
	StaffID    *int64    // ID мастера (опционально, закрепленный мастер)
	Date       time.Time // Дата, на которую запрашивается сетка (без времени)
}

// Response модель ответа с сеткой доступности на день
type Response struct {
	Date            time.Time // Дата, на которую запрашивалась сетка
	LocationID      int64     // ID салона
	ServiceID       *int64    // ID услуги (если передавалась)
	StaffID         *int64    // ID закрепленного мастера (если передавался)
	DurationMinutes int       // Длительность слота в минутах
	Slots           []Slot    // Сетка слотов
}

// Slot модель слота в сетке доступности
type Slot struct {
	StartTime       types.TimeString // Время начала слота в поясе салона (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах
	Available       bool             // Есть ли хотя бы один свободный мастер
	StaffIDs        []int64          // Мастера, свободные в этот слот (отсортированы по возрастанию)
}
