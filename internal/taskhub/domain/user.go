package domain

import "time"

type User struct {
	ID             string
	Email          string
	Name           string
	ProfilePicture string // Can be empty string if the user never set one
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
