package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// TeamStatus represents a team's project phase
type TeamStatus string

const (
	StatusInitiation  TeamStatus = "Initiation"
	StatusPlanning    TeamStatus = "Planning"
	StatusDesign      TeamStatus = "Design"
	StatusDevelopment TeamStatus = "Development"
	StatusTesting     TeamStatus = "Testing"
	StatusReady       TeamStatus = "Ready"
)

// MaxTeamMembers bounds the membership size of every team.
const MaxTeamMembers = 5

// ValidTeamStatus reports whether s is one of the known statuses.
func ValidTeamStatus(s TeamStatus) bool {
	switch s {
	case StatusInitiation, StatusPlanning, StatusDesign, StatusDevelopment, StatusTesting, StatusReady:
		return true
	}
	return false
}

// Team represents a team with its members loaded. The owner is always
// one of the members.
type Team struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	ProjectName string     `json:"projectName"`
	Description string     `json:"description"`
	Status      TeamStatus `json:"status"`
	OwnerID     uint       `json:"ownerId"`
	Members     []*User    `json:"members"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsOwner reports whether userID owns the team.
func (t *Team) IsOwner(userID uint) bool {
	return t.OwnerID == userID
}

// IsMember reports whether userID is currently a member.
func (t *Team) IsMember(userID uint) bool {
	for _, m := range t.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// HasCapacity reports whether another member can still join.
func (t *Team) HasCapacity() bool {
	return len(t.Members) < MaxTeamMembers
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	Title       string `json:"title" binding:"required,max=256"`
	ProjectName string `json:"projectName" binding:"required,max=256"`
	Description string `json:"description"`
}

// UpdateTeamInput carries a partial team update. Absent fields stay
// invalid and are left untouched.
type UpdateTeamInput struct {
	Title       null.String `json:"title"`
	ProjectName null.String `json:"projectName"`
	Description null.String `json:"description"`
	Status      null.String `json:"status"`
}

// TeamFilter narrows team listings. Title and ProjectName are
// substring matches, Status is exact.
type TeamFilter struct {
	Title       string
	ProjectName string
	Status      TeamStatus
}
