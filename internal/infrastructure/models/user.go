package models

import (
	"time"
)

type User struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"type:varchar(320);uniqueIndex;not null"`
	FirstName      string `gorm:"type:varchar(128);not null;default:''"`
	LastName       string `gorm:"type:varchar(128);not null;default:''"`
	HashedPassword string `gorm:"type:varchar(1024);not null"`
	Position       string `gorm:"type:varchar(32);not null;default:''"`
	Contact        string `gorm:"type:text;not null;default:''"`
	Photo          string `gorm:"type:varchar(256);not null;default:''"`
	IsActive       bool   `gorm:"not null;default:true"`
	IsSuperuser    bool   `gorm:"not null;default:false"`
	IsVerified     bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
