package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/internal/integrations/clientservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// GetActiveByStaffIntersecting получает активные бронирования мастера,
	// пересекающие интервал (в транзакции - с блокировкой строк)
	GetActiveByStaffIntersecting(ctx context.Context, staffID int64, interval domain.Interval) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний мастеров
type ScheduleRepository interface {
	GetByWeekday(ctx context.Context, staffID int64, weekday time.Weekday) (*domain.WeeklyScheduleRow, error)
	GetBreaks(ctx context.Context, staffID int64, date time.Time) ([]*domain.Break, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetLocation(ctx context.Context, locationID int64) (*catalogservice.Location, error)
	GetService(ctx context.Context, locationID, serviceID int64) (*catalogservice.Service, error)
	GetStaff(ctx context.Context, staffID int64) (*catalogservice.Staff, error)
}

// ClientServiceClient интерфейс клиента для ClientService
type ClientServiceClient interface {
	GetClientWithGracefulDegradation(ctx context.Context, clientID int64) (*clientservice.ClientRecord, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
