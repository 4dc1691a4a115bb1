package create_booking

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	createBooking "github.com/m04kA/SLN-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	LocationID int64   `json:"locationId"`
	StaffID    int64   `json:"staffId"`
	ServiceID  int64   `json:"serviceId"`
	Date       string  `json:"date"`      // "2026-09-15"
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               int64   `json:"id"`
	ClientID         int64   `json:"clientId"`
	StaffID          int64   `json:"staffId"`
	LocationID       int64   `json:"locationId"`
	ServiceID        int64   `json:"serviceId"`
	Date             string  `json:"date"`
	StartTime        string  `json:"startTime"`
	ScheduledStartAt string  `json:"scheduledStartAt"` // ISO 8601, UTC
	ScheduledEndAt   string  `json:"scheduledEndAt"`   // ISO 8601, UTC
	DurationMinutes  int     `json:"durationMinutes"`
	Status           string  `json:"status"`
	ServiceName      string  `json:"serviceName"`
	ServicePrice     float64 `json:"servicePrice"`
	ClientName       *string `json:"clientName,omitempty"`
	ClientPhone      *string `json:"clientPhone,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:   clientID,
		LocationID: r.LocationID,
		StaffID:    r.StaffID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:               resp.ID,
		ClientID:         resp.ClientID,
		StaffID:          resp.StaffID,
		LocationID:       resp.LocationID,
		ServiceID:        resp.ServiceID,
		Date:             resp.Date.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		ScheduledStartAt: resp.ScheduledStart.Format(time.RFC3339),
		ScheduledEndAt:   resp.ScheduledEnd.Format(time.RFC3339),
		DurationMinutes:  resp.DurationMinutes,
		Status:           resp.Status,
		ServiceName:      resp.ServiceName,
		ServicePrice:     resp.ServicePrice,
		ClientName:       resp.ClientName,
		ClientPhone:      resp.ClientPhone,
		Notes:            resp.Notes,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
