package models

import "time"

// User types accepted at signup.
const (
	UserTypeConsumer = "consumer"
	UserTypeProducer = "producer"
)

// User is an account row shared by consumers and producers.
type User struct {
	ID           int64     `json:"pk"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"user_type"`
	CreatedAt    time.Time `json:"-"`
}

// ConsumerProfile joins a consumer account with its registered vehicle.
type ConsumerProfile struct {
	UserID  int64   `json:"-"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Vehicle Vehicle `json:"vehicle"`
}
