package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Position represents a user's role inside a team
type Position string

const (
	PositionDefault  Position = ""
	PositionFrontend Position = "Frontend"
	PositionBackend  Position = "Backend"
	PositionDesigner Position = "Designer"
	PositionPM       Position = "Project Manager"
	PositionQA       Position = "QA"
)

// ValidPosition reports whether p is one of the known positions.
func ValidPosition(p Position) bool {
	switch p {
	case PositionDefault, PositionFrontend, PositionBackend, PositionDesigner, PositionPM, PositionQA:
		return true
	}
	return false
}

// User represents a user account
type User struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	HashedPassword string    `json:"-"`
	Position       Position  `json:"position"`
	Contact        string    `json:"contact"`
	Photo          string    `json:"photo"`
	IsActive       bool      `json:"isActive"`
	IsSuperuser    bool      `json:"isSuperuser"`
	IsVerified     bool      `json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateUserInput represents input for registration
type CreateUserInput struct {
	Email     string `json:"email" binding:"required,email,max=320"`
	Password  string `json:"password" binding:"required,min=3"`
	FirstName string `json:"firstName" binding:"max=128"`
	LastName  string `json:"lastName" binding:"max=128"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	UseSession bool   `json:"useSession"` // If true, store the token pair in Redis and return a SessionID
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	User         *User  `json:"user"`
}

// UpdateUserInput carries a partial profile update. Absent fields stay
// invalid and are left untouched.
type UpdateUserInput struct {
	Email     null.String `json:"email"`
	FirstName null.String `json:"firstName"`
	LastName  null.String `json:"lastName"`
	Position  null.String `json:"position"`
	Contact   null.String `json:"contact"`
}

// ChangePasswordInput represents input for changing the password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=3"`
}

// UserFilter narrows user listings.
type UserFilter struct {
	FullName string
	Email    string
	Position Position
}
