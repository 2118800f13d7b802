package dto

type OverviewResponse struct {
	TotalClubs         int64 `json:"total_clubs"`
	TotalEvents        int64 `json:"total_events"`
	TotalParticipants  int64 `json:"total_participants"`
	TotalRegistrations int64 `json:"total_registrations"`
	TotalCheckIns      int64 `json:"total_check_ins"`
	PendingRequests    int64 `json:"pending_requests"`
}

type PopularClub struct {
	ClubID        uint   `json:"club_id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	EventCount    int64  `json:"event_count"`
	Registrations int64  `json:"registrations"`
}

type ActiveDay struct {
	Date          string `json:"date"`
	Registrations int64  `json:"registrations"`
}

type EventAttendance struct {
	EventID        uint    `json:"event_id"`
	Title          string  `json:"title"`
	Date           string  `json:"date"`
	Registered     int64   `json:"registered"`
	CheckedIn      int64   `json:"checked_in"`
	Cancelled      int64   `json:"cancelled"`
	NoShows        int64   `json:"no_shows"`
	AttendanceRate float64 `json:"attendance_rate"`
}
