package models

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Request модели

// ScheduleDayInput строка недельного расписания в запросе
type ScheduleDayInput struct {
	Weekday   int     `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	IsWorking bool    `json:"isWorking"`
	OpenTime  *string `json:"openTime,omitempty"`  // "HH:MM", обязательно при isWorking
	CloseTime *string `json:"closeTime,omitempty"` // "HH:MM", обязательно при isWorking
}

// BreakInput перерыв мастера в запросе
type BreakInput struct {
	Date      string  `json:"date"`      // "YYYY-MM-DD"
	StartTime string  `json:"startTime"` // "HH:MM"
	EndTime   string  `json:"endTime"`   // "HH:MM"
	Label     *string `json:"label,omitempty"`
}

// UpdateScheduleRequest запрос на полную замену расписания мастера
type UpdateScheduleRequest struct {
	UserID  int64              `json:"userId"`
	StaffID int64              `json:"staffId"`
	Days    []ScheduleDayInput `json:"days"`
	Breaks  []BreakInput       `json:"breaks,omitempty"`
}

// Response модели

// ScheduleDayResponse строка недельного расписания
type ScheduleDayResponse struct {
	Weekday   int     `json:"weekday"`
	IsWorking bool    `json:"isWorking"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

// BreakResponse перерыв мастера
type BreakResponse struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Label     *string `json:"label,omitempty"`
}

// ScheduleResponse расписание мастера
// Breaks заполняется только при запросе на конкретную дату
type ScheduleResponse struct {
	StaffID int64                 `json:"staffId"`
	Days    []ScheduleDayResponse `json:"days"`
	Breaks  []BreakResponse       `json:"breaks,omitempty"`
}

// Методы конвертации

// FromDomainSchedule конвертирует строки расписания и перерывы в DTO
func FromDomainSchedule(staffID int64, rows []*domain.WeeklyScheduleRow, breaks []*domain.Break) *ScheduleResponse {
	resp := &ScheduleResponse{
		StaffID: staffID,
		Days:    make([]ScheduleDayResponse, 0, len(rows)),
	}

	for _, row := range rows {
		day := ScheduleDayResponse{
			Weekday:   int(row.Weekday),
			IsWorking: row.IsWorking,
		}
		if row.IsWorking {
			open := row.OpenTime.String()
			closeT := row.CloseTime.String()
			day.OpenTime = &open
			day.CloseTime = &closeT
		}
		resp.Days = append(resp.Days, day)
	}

	for _, b := range breaks {
		resp.Breaks = append(resp.Breaks, BreakResponse{
			ID:        b.ID,
			Date:      b.Date.Format(domain.DateFormat),
			StartTime: b.StartTime.String(),
			EndTime:   b.EndTime.String(),
			Label:     b.Label,
		})
	}

	return resp
}

// ToDomainRows конвертирует строки запроса в domain модели
// Валидация выполняется на уровне сервиса
func (r *UpdateScheduleRequest) ToDomainRows() []*domain.WeeklyScheduleRow {
	rows := make([]*domain.WeeklyScheduleRow, 0, len(r.Days))
	for _, day := range r.Days {
		row := &domain.WeeklyScheduleRow{
			StaffID:   r.StaffID,
			Weekday:   time.Weekday(day.Weekday),
			IsWorking: day.IsWorking,
		}
		if day.OpenTime != nil {
			row.OpenTime = types.TimeString(*day.OpenTime)
		}
		if day.CloseTime != nil {
			row.CloseTime = types.TimeString(*day.CloseTime)
		}
		rows = append(rows, row)
	}
	return rows
}

// BreaksByDate группирует перерывы запроса по датам
func (r *UpdateScheduleRequest) BreaksByDate() (map[string][]*domain.Break, error) {
	result := make(map[string][]*domain.Break)
	for _, b := range r.Breaks {
		if _, err := time.Parse(domain.DateFormat, b.Date); err != nil {
			return nil, err
		}
		result[b.Date] = append(result[b.Date], &domain.Break{
			StaffID:   r.StaffID,
			StartTime: types.TimeString(b.StartTime),
			EndTime:   types.TimeString(b.EndTime),
			Label:     b.Label,
		})
	}
	return result, nil
}
