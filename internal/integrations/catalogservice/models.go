package catalogservice

// DaySchedule режим работы локации на день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time"`  // "HH:MM"
	CloseTime *string `json:"close_time"` // "HH:MM"
}

// WeekSchedule режим работы локации по дням недели
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// Location модель салона из CatalogService
type Location struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	TimeZone     string       `json:"time_zone"` // IANA, например "Europe/Moscow"
	ManagerIDs   []int64      `json:"manager_ids"`
	WorkingHours WeekSchedule `json:"working_hours"`
}

// Service модель услуги из CatalogService
type Service struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Price           *float64 `json:"price"`
	DurationMinutes int      `json:"duration_minutes"`
	LocationIDs     []int64  `json:"location_ids"`
}

// AvailableAt проверяет, что услуга оказывается в указанной локации
func (s *Service) AvailableAt(locationID int64) bool {
	for _, id := range s.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// Staff модель мастера из CatalogService
type Staff struct {
	ID             int64   `json:"id"`
	FullName       string  `json:"full_name"`
	Active         bool    `json:"active"`
	BookableOnline bool    `json:"bookable_online"`
	LocationIDs    []int64 `json:"location_ids"`
	ServiceIDs     []int64 `json:"service_ids"`
}

// WorksAt проверяет, что мастер закреплен за локацией
func (s *Staff) WorksAt(locationID int64) bool {
	for _, id := range s.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// Offers проверяет, что мастер оказывает услугу
func (s *Staff) Offers(serviceID int64) bool {
	for _, id := range s.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// Bookable возвращает true для мастера, доступного для онлайн-записи
func (s *Staff) Bookable() bool {
	return s.Active && s.BookableOnline
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
