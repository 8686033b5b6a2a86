package db

import (
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID       int       `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email"`
	Created  time.Time `db:"created" json:"created"`
}

// NormalizeEmail lower-cases and trims an address so invitations and users compare equal.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return &ValidationError{"username can not be empty"}
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return &ValidationError{"invalid email address"}
	}
	return nil
}
