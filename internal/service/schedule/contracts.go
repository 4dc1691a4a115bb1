package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
)

// ScheduleRepository интерфейс репозитория расписаний мастеров
type ScheduleRepository interface {
	GetWeekly(ctx context.Context, staffID int64) ([]*domain.WeeklyScheduleRow, error)
	ReplaceWeekly(ctx context.Context, staffID int64, rows []*domain.WeeklyScheduleRow) error
	GetBreaks(ctx context.Context, staffID int64, date time.Time) ([]*domain.Break, error)
	ReplaceBreaks(ctx context.Context, staffID int64, date time.Time, breaks []*domain.Break) error
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetLocation(ctx context.Context, locationID int64) (*catalogservice.Location, error)
	GetStaff(ctx context.Context, staffID int64) (*catalogservice.Staff, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
