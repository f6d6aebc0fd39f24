package entities

// DailyStatistics summarizes the clinic's day
type DailyStatistics struct {
	TotalPatients        int                       `json:"totalPatients"`
	TodayAppointments    int                       `json:"todayAppointments"`
	AppointmentsByStatus map[AppointmentStatus]int `json:"appointmentsByStatus"`
}
