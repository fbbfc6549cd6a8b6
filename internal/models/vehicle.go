package models

// Vehicle is a supported EV model batteries are compatible with.
type Vehicle struct {
	ID   int64  `json:"pk"`
	Name string `json:"name"`
}
