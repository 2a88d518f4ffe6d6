package dto

import (
	"time"
)

type CreateUserRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Username        string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	FirstName       string `json:"firstName" validate:"required,min=1,max=100"`
	LastName        string `json:"lastName" validate:"max=100"`
	Phone           string `json:"phone" validate:"max=20"`
	Role            string `json:"role" validate:"required,oneof=admin trainer student"`
	Specialization  string `json:"specialization" validate:"max=100"`
	ExperienceYears int    `json:"experienceYears" validate:"min=0,max=60"`
	Bio             string `json:"bio" validate:"max=2000"`
}

type UpdateUserRequest struct {
	FirstName       *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName        *string `json:"lastName" validate:"omitempty,max=100"`
	Phone           *string `json:"phone" validate:"omitempty,max=20"`
	Role            *string `json:"role" validate:"omitempty,oneof=admin trainer student"`
	Specialization  *string `json:"specialization" validate:"omitempty,max=100"`
	ExperienceYears *int    `json:"experienceYears" validate:"omitempty,min=0,max=60"`
	Bio             *string `json:"bio" validate:"omitempty,max=2000"`
	IsActive        *bool   `json:"isActive"`
}

// UpdateProfileRequest is what users may change about themselves.
type UpdateProfileRequest struct {
	FirstName      *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"lastName" validate:"omitempty,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	Specialization *string `json:"specialization" validate:"omitempty,max=100"`
	Bio            *string `json:"bio" validate:"omitempty,max=2000"`
}

type UserListQuery struct {
	PageQuery
	Role     string `query:"role" json:"role" validate:"omitempty,oneof=admin trainer student"`
	IsActive *bool  `query:"isActive" json:"isActive"`
	Search   string `query:"search" json:"search" validate:"max=100"`
	SortBy   string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=createdAt username email firstName"`
}

func (q *UserListQuery) ApplyDefaults() {
	q.PageQuery.ApplyDefaults()
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
}

type TrainerListQuery struct {
	PageQuery
	Specialization string `query:"specialization" json:"specialization" validate:"max=100"`
	Search         string `query:"search" json:"search" validate:"max=100"`
	SortBy         string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=createdAt firstName experienceYears"`
}

func (q *TrainerListQuery) ApplyDefaults() {
	q.PageQuery.ApplyDefaults()
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
}

type UserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	FullName        string    `json:"fullName"`
	Phone           string    `json:"phone"`
	Avatar          string    `json:"avatar"`
	Role            string    `json:"role"`
	Specialization  string    `json:"specialization,omitempty"`
	ExperienceYears int       `json:"experienceYears,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
