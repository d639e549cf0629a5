package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidUser = errors.New("invalid user data")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNoSearchResults = errors.New("no search results")

// User models a registered account. Email is the unique identifier and is
// stored lower-cased so uniqueness is case-insensitive.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	DateJoined   time.Time `json:"date_joined"`
}
