package get_available_slots

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SLN-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель слота в сетке доступности
type SlotResponse struct {
	StartTime       string  `json:"startTime"` // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Available       bool    `json:"available"`
	StaffIDs        []int64 `json:"staffIds"`
}

// AvailableSlotsResponse HTTP модель сетки доступности на день
type AvailableSlotsResponse struct {
	Date            string         `json:"date"` // "2026-09-15"
	LocationID      int64          `json:"locationId"`
	ServiceID       *int64         `json:"serviceId,omitempty"`
	StaffID         *int64         `json:"staffId,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// ToUseCaseRequest строит запрос use case из параметров HTTP запроса
func ToUseCaseRequest(locationID int64, serviceID, staffID *int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		LocationID: locationID,
		ServiceID:  serviceID,
		StaffID:    staffID,
		Date:       date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Available:       slot.Available,
			StaffIDs:        slot.StaffIDs,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		LocationID:      resp.LocationID,
		ServiceID:       resp.ServiceID,
		StaffID:         resp.StaffID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
