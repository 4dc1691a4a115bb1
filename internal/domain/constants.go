package domain

// Default configuration values
const (
	DefaultSlotStepMinutes        = 30
	DefaultServiceDurationMinutes = 60

	// Fallback working window when neither the staff schedule
	// nor the location operating hours define one
	DefaultOpenTime  = "09:00"
	DefaultCloseTime = "18:00"
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 120
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBreaksPerDay             = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ConflictingStatuses статусы, участвующие в проверке пересечений
// Используется при подсчете занятости слотов и в exclusion constraint БД
var ConflictingStatuses = []BookingStatus{
	StatusBooked,
	StatusConfirmed,
	StatusCheckedIn,
}

// InactiveStatuses статусы, освобождающие слот
var InactiveStatuses = []BookingStatus{
	StatusCancelledByClient,
	StatusCancelledBySalon,
	StatusNoShow,
}

// AllStatuses полный список статусов для валидации входных данных
var AllStatuses = []BookingStatus{
	StatusBooked,
	StatusConfirmed,
	StatusCheckedIn,
	StatusCompleted,
	StatusCancelledByClient,
	StatusCancelledBySalon,
	StatusNoShow,
}
