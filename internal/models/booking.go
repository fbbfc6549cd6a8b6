package models

import "time"

// BookingStation is the station reference embedded in a booking payload.
type BookingStation struct {
	ID   int64  `json:"pk"`
	Name string `json:"name"`
}

// BookingBattery is the battery reference embedded in a booking payload.
type BookingBattery struct {
	ID          int64   `json:"pk"`
	Price       float64 `json:"price"`
	CompanyName string  `json:"company_name"`
}

// Booking reserves one battery at one station for a consumer.
type Booking struct {
	ID          int64          `json:"pk"`
	UserID      int64          `json:"-"`
	Station     BookingStation `json:"station"`
	Battery     BookingBattery `json:"battery"`
	BookedTime  time.Time      `json:"booked_time"`
	ExpiryTime  time.Time      `json:"expiry_time"`
	IsPaid      bool           `json:"is_paid"`
	IsCollected bool           `json:"is_collected"`
}

// Expired reports whether the reservation window has lapsed without collection.
func (b *Booking) Expired(now time.Time) bool {
	return !b.IsCollected && now.After(b.ExpiryTime)
}
