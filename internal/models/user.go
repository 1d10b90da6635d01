package models

import (
	"fmt"
	"strings"
	"time"
)

var _ Model = (*User)(nil)

// User is a catalog account. It exclusively owns its favorites.
type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	Password         string    `json:"-"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	IsActive         bool      `json:"is_active"`
	SubscriptionDate time.Time `json:"subscription_date"`
	ProfileImage     *string   `json:"profile_image,omitempty"`
}

// NewUser creates an active [User] subscribed now.
func NewUser(email, password, firstName, lastName string) *User {
	return &User{
		Email:            email,
		Password:         password,
		FirstName:        firstName,
		LastName:         lastName,
		IsActive:         true,
		SubscriptionDate: time.Now().UTC(),
	}
}

func (u *User) TableName() string { return "user" }

// SetProfileImage sets the profile image reference; an empty string clears it.
func (u *User) SetProfileImage(ref string) {
	u.ProfileImage = optional(ref)
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Validate checks required fields and column limits.
func (u *User) Validate() error {
	return firstErr(
		required("email", u.Email),
		maxLen("email", u.Email, maxEmail),
		required("password", u.Password),
		maxLen("password", u.Password, maxPassword),
		required("first_name", u.FirstName),
		maxLen("first_name", u.FirstName, maxName),
		required("last_name", u.LastName),
		maxLen("last_name", u.LastName, maxName),
		maxLen("profile_image", Deref(u.ProfileImage), maxURL),
	)
}

// String keeps the password out of %v and %+v output.
func (u *User) String() string {
	return fmt.Sprintf("User(%d, %s)", u.ID, u.Email)
}

// GoString keeps the password out of %#v output.
func (u *User) GoString() string {
	return u.String()
}
