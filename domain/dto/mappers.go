package dto

import (
	"github.com/f2expert/f2expert-sub001/domain/models"
)

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		FullName:        user.FullName(),
		Phone:           user.Phone,
		Avatar:          user.Avatar,
		Role:            user.Role,
		Specialization:  user.Specialization,
		ExperienceYears: user.ExperienceYears,
		Bio:             user.Bio,
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

func UsersToUserResponses(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserToUserResponse(u))
	}
	return out
}

func CreateUserRequestToUser(req *CreateUserRequest) *models.User {
	return &models.User{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Role:            req.Role,
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
		Bio:             req.Bio,
		IsActive:        true,
	}
}

func RegisterRequestToUser(req *RegisterRequest) *models.User {
	return &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RoleStudent,
		IsActive:  true,
	}
}

// ApplyUserUpdate copies the set fields of req onto user.
func ApplyUserUpdate(user *models.User, req *UpdateUserRequest) {
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Specialization != nil {
		user.Specialization = *req.Specialization
	}
	if req.ExperienceYears != nil {
		user.ExperienceYears = *req.ExperienceYears
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
}

func ApplyProfileUpdate(user *models.User, req *UpdateProfileRequest) {
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Specialization != nil && user.IsTrainer() {
		user.Specialization = *req.Specialization
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
}
