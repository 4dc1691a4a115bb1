package domain

import "github.com/m04kA/SLN-BookingService/pkg/types"

// AvailableSlot represents one candidate start time of the availability grid
type AvailableSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
	StaffIDs        []int64 // staff members free at this start time, sorted
}

// HasStaff returns true if the given staff member is free at this slot
func (s *AvailableSlot) HasStaff(staffID int64) bool {
	for _, id := range s.StaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}
