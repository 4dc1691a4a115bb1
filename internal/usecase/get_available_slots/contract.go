package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetActiveByStaffBetween получает активные бронирования мастеров, пересекающие окно
	GetActiveByStaffBetween(ctx context.Context, staffIDs []int64, window domain.Interval) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний мастеров
type ScheduleRepository interface {
	// GetByWeekday получает строку расписания мастера на день недели
	GetByWeekday(ctx context.Context, staffID int64, weekday time.Weekday) (*domain.WeeklyScheduleRow, error)
	// GetBreaksForStaff получает перерывы мастеров на дату
	GetBreaksForStaff(ctx context.Context, staffIDs []int64, date time.Time) ([]*domain.Break, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetLocation(ctx context.Context, locationID int64) (*catalogservice.Location, error)
	GetService(ctx context.Context, locationID, serviceID int64) (*catalogservice.Service, error)
	GetStaff(ctx context.Context, staffID int64) (*catalogservice.Staff, error)
	ListStaffByLocation(ctx context.Context, locationID int64) ([]catalogservice.Staff, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
