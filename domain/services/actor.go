package services

import "github.com/f2expert/f2expert-sub001/domain/models"

// Actor is the authenticated caller a service acts for.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) IsTrainer() bool {
	return a.Role == models.RoleTrainer
}

func (a Actor) IsStudent() bool {
	return a.Role == models.RoleStudent
}
