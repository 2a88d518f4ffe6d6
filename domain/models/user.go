package models

import (
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleStudent = "student"
)

type User struct {
	ID              string `gorm:"primaryKey;size:24"`
	Email           string `gorm:"size:255;uniqueIndex;not null"`
	Username        string `gorm:"size:50;uniqueIndex;not null"`
	Password        string `gorm:"size:255;not null"`
	FirstName       string `gorm:"size:100"`
	LastName        string `gorm:"size:100"`
	Phone           string `gorm:"size:20"`
	Avatar          string
	Role            string `gorm:"size:20;not null;index"` // admin, trainer, student
	Specialization  string `gorm:"size:100"`               // trainers only
	ExperienceYears int
	Bio             string `gorm:"type:text"`
	IsActive        bool   `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
