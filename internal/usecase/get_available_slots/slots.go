package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// generateCandidateStarts генерирует кандидатов времени начала внутри рабочего окна
// Кандидаты идут от открытия с фиксированным шагом stepMinutes;
// кандидат включается, только если услуга целиком помещается до закрытия
// (конец ровно в закрытие - допустим)
func generateCandidateStarts(openTime, closeTime types.TimeString, durationMinutes, stepMinutes int) []types.TimeString {
	candidates := make([]types.TimeString, 0)
	current := openTime

	for current.IsBefore(closeTime) {
		end, err := current.AddMinutes(durationMinutes)
		if err != nil {
			// Переход через полночь - услуга заведомо не помещается
			break
		}
		if end.IsAfter(closeTime) {
			break
		}

		candidates = append(candidates, current)

		current, err = current.AddMinutes(stepMinutes)
		if err != nil {
			break
		}
	}

	return candidates
}

// evaluateStaffGrid вычисляет доступность каждого кандидата для одного мастера
// Слот недоступен, если уже начался (start <= now) или пересекается
// с перерывом либо активным бронированием. Граничащие интервалы
// (конец одного ровно в начало другого) пересечением не считаются
func evaluateStaffGrid(
	candidates []types.TimeString,
	date time.Time,
	durationMinutes int,
	loc *time.Location,
	now time.Time,
	busy []domain.Interval,
) (map[types.TimeString]bool, error) {
	grid := make(map[types.TimeString]bool, len(candidates))

	for _, start := range candidates {
		interval, err := domain.IntervalFromLocal(date, start, durationMinutes, loc)
		if err != nil {
			return nil, err
		}

		grid[start] = interval.Start.After(now) && !overlapsAny(interval, busy)
	}

	return grid, nil
}

// overlapsAny проверяет пересечение интервала хотя бы с одним из busy
func overlapsAny(interval domain.Interval, busy []domain.Interval) bool {
	for _, b := range busy {
		if interval.Overlaps(b) {
			return true
		}
	}
	return false
}

// breakInterval переводит перерыв мастера в UTC-интервал конкретной даты
func breakInterval(b *domain.Break, date time.Time, loc *time.Location) (domain.Interval, error) {
	startMinutes, err := b.StartTime.MinutesFromMidnight()
	if err != nil {
		return domain.Interval{}, err
	}
	endMinutes, err := b.EndTime.MinutesFromMidnight()
	if err != nil {
		return domain.Interval{}, err
	}

	return domain.IntervalFromLocal(date, b.StartTime, endMinutes-startMinutes, loc)
}

// mergeStaffGrids объединяет сетки нескольких мастеров в общую сетку
// Ось времени - объединение кандидатов всех мастеров (у мастеров
// могут быть разные рабочие окна). Слот доступен, если свободен
// хотя бы один мастер
func mergeStaffGrids(grids map[int64]map[types.TimeString]bool, durationMinutes int) []Slot {
	axis := make(map[types.TimeString]struct{})
	for _, grid := range grids {
		for start := range grid {
			axis[start] = struct{}{}
		}
	}

	starts := make([]types.TimeString, 0, len(axis))
	for start := range axis {
		starts = append(starts, start)
	}
	// "HH:MM" с ведущими нулями сортируется лексикографически корректно
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		staffIDs := make([]int64, 0)
		for staffID, grid := range grids {
			if grid[start] {
				staffIDs = append(staffIDs, staffID)
			}
		}
		sort.Slice(staffIDs, func(i, j int) bool { return staffIDs[i] < staffIDs[j] })

		slots = append(slots, Slot{
			StartTime:       start,
			DurationMinutes: durationMinutes,
			Available:       len(staffIDs) > 0,
			StaffIDs:        staffIDs,
		})
	}

	return slots
}

// locationDaySchedule возвращает режим работы салона на указанный день недели
func locationDaySchedule(location *catalogservice.Location, weekday time.Weekday) catalogservice.DaySchedule {
	switch weekday {
	case time.Monday:
		return location.WorkingHours.Monday
	case time.Tuesday:
		return location.WorkingHours.Tuesday
	case time.Wednesday:
		return location.WorkingHours.Wednesday
	case time.Thursday:
		return location.WorkingHours.Thursday
	case time.Friday:
		return location.WorkingHours.Friday
	case time.Saturday:
		return location.WorkingHours.Saturday
	case time.Sunday:
		return location.WorkingHours.Sunday
	default:
		return catalogservice.DaySchedule{IsOpen: false}
	}
}
