package models

// Slot is a candidate start time produced by the slot generator for one
// date at the calendar granularity.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Stats summarizes the appointment book for the admin dashboard.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Rejected  int `json:"rejected"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Today     int `json:"today"`
}
