package domain

import (
	"time"
)

// BookingStatus represents the status of an appointment booking
type BookingStatus string

const (
	StatusBooked            BookingStatus = "booked"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusCheckedIn         BookingStatus = "checked_in"
	StatusCompleted         BookingStatus = "completed"
	StatusCancelledByClient BookingStatus = "cancelled_by_client"
	StatusCancelledBySalon  BookingStatus = "cancelled_by_salon"
	StatusNoShow            BookingStatus = "no_show"
)

// Booking represents a client appointment with a staff member.
// Scheduled times are stored as UTC instants; the location time zone is used
// only for parsing input and formatting output.
type Booking struct {
	ID              int64
	ClientID        int64
	StaffID         int64
	LocationID      int64
	ServiceID       int64
	ScheduledStart  time.Time // UTC
	ScheduledEnd    time.Time // UTC
	DurationMinutes int
	Status          BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	ClientName   *string
	ClientPhone  *string
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the booked time range as a half-open interval
func (b *Booking) Interval() Interval {
	return Interval{Start: b.ScheduledStart, End: b.ScheduledEnd}
}

// BlocksSlot returns true if the booking participates in conflict detection.
// Cancelled, no-show and completed bookings free the slot for others.
func (b *Booking) BlocksSlot() bool {
	return b.Status == StatusBooked ||
		b.Status == StatusConfirmed ||
		b.Status == StatusCheckedIn
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusBooked ||
		b.Status == StatusConfirmed ||
		b.Status == StatusCheckedIn
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByClient || b.Status == StatusCancelledBySalon
}

// IsTerminal returns true for states with no outgoing transitions
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusNoShow || b.IsCancelled()
}

// CanTransitionTo reports whether the status machine allows moving to next.
// The forward path is booked -> confirmed -> checked_in -> completed;
// cancellation and no-show are reachable from any pre-completion state.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	if b.IsTerminal() {
		return false
	}

	switch next {
	case StatusCancelledByClient, StatusCancelledBySalon, StatusNoShow:
		return true
	case StatusConfirmed:
		return b.Status == StatusBooked
	case StatusCheckedIn:
		return b.Status == StatusConfirmed
	case StatusCompleted:
		return b.Status == StatusCheckedIn
	default:
		return false
	}
}

// LocationBookingsFilter фильтр для получения бронирований локации
type LocationBookingsFilter struct {
	LocationID      int64          // Обязательный параметр
	StaffID         *int64         // Фильтр по мастеру (опционально)
	StartDate       *time.Time     // Начало периода в UTC (опционально)
	EndDate         *time.Time     // Конец периода в UTC (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные и no-show
}
