package domain

import (
	"time"

	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// WeeklyScheduleRow расписание мастера на день недели
// Хранится в staff_schedules, время в часовом поясе локации
type WeeklyScheduleRow struct {
	ID        int64
	StaffID   int64
	Weekday   time.Weekday
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsWorking bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkingWindow represents the open-to-close interval of a staff member
// for a concrete calendar date, in the location time zone
type WorkingWindow struct {
	StaffID   int64
	Date      time.Time
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsWorking bool
}

// IsEmpty returns true when the staff member is not bookable on this date
func (w WorkingWindow) IsEmpty() bool {
	return !w.IsWorking || w.OpenTime.IsZero() || w.CloseTime.IsZero()
}

// Break перерыв мастера внутри рабочего окна (обед, уборка и т.п.)
type Break struct {
	ID        int64
	StaffID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Label     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
