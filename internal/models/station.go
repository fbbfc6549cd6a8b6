package models

// Battery statuses as stored in the batteries table.
const (
	BatteryStatusAvailable = "available"
	BatteryStatusBooked    = "booked"
)

// Battery is a swappable unit stocked at a station.
type Battery struct {
	ID          int64   `json:"pk"`
	Price       float64 `json:"price"`
	CompanyName string  `json:"company_name"`
	VehicleID   int64   `json:"-"`
	VehicleName string  `json:"vehicle"`
	Status      string  `json:"-"`
}

// Station is a physical swap location. Distance is derived per request from
// the caller's coordinates and never persisted.
type Station struct {
	ID        int64     `json:"pk"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Distance  string    `json:"distance,omitempty"`
	Batteries []Battery `json:"available_batteries"`
}
