package handler

import (
	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

type updateProfileRequest struct {
	Email     *string `json:"email"      validate:"omitempty,email"`
	Username  *string `json:"username"   validate:"omitempty,min=3,max=50,excludes=@"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
	Password  *string `json:"password"   validate:"omitempty,maxbytes=72"`
}

type adminUpdateRequest struct {
	updateProfileRequest
	IsActive *bool   `json:"is_active"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
}

type listUsersQuery struct {
	Skip  int `query:"skip"  validate:"min=0"`
	Limit int `query:"limit" validate:"min=0"`
}

type listUsersResponse struct {
	Items []*domain.User `json:"items"`
	Skip  int            `json:"skip"`
	Count int            `json:"count"`
}

func (r updateProfileRequest) toPort() ports.ProfileUpdate {
	return ports.ProfileUpdate{
		Email:     r.Email,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}

func (r adminUpdateRequest) toPort() ports.AdminUpdate {
	out := ports.AdminUpdate{
		ProfileUpdate: r.updateProfileRequest.toPort(),
		IsActive:      r.IsActive,
	}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		out.Role = &role
	}
	return out
}
