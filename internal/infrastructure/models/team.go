package models

import (
	"time"
)

type Team struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"type:varchar(256);not null;index"`
	ProjectName string `gorm:"type:varchar(256);not null"`
	Description string `gorm:"type:text;not null"`
	Status      string `gorm:"type:varchar(32);not null;default:'Initiation'"`
	// The partial unique index allows one non-Ready team per owner,
	// enforcing the ownership limit under concurrent creates.
	OwnerID uint `gorm:"not null;index;index:uniq_teams_active_owner,unique,where:status <> 'Ready'"`
	Members     []User `gorm:"many2many:users_teams;joinForeignKey:TeamID;joinReferences:UserID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserTeam is the membership row. Rows are inserted and deleted
// explicitly; the foreign keys cascade on user/team deletion.
type UserTeam struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false"`
	TeamID uint `gorm:"primaryKey;autoIncrement:false"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`
	Team   Team `gorm:"constraint:OnDelete:CASCADE"`
}

func (UserTeam) TableName() string {
	return "users_teams"
}
