package handler

import "github.com/aprodmayo/management-system/internal/core/domain"

// capabilitiesRequest mirrors domain.Capabilities; absent fields default to
// false, so staff start with exactly what the administrator grants.
type capabilitiesRequest struct {
	Beneficiaries bool `json:"beneficiaries"`
	Finance       bool `json:"finance"`
	Workshops     bool `json:"workshops"`
	Reports       bool `json:"reports"`
}

func (r *capabilitiesRequest) toDomain() *domain.Capabilities {
	if r == nil {
		return nil
	}
	return &domain.Capabilities{
		Beneficiaries: r.Beneficiaries,
		Finance:       r.Finance,
		Workshops:     r.Workshops,
		Reports:       r.Reports,
	}
}

type createUserRequest struct {
	FullName     string               `json:"full_name"    validate:"required"`
	Email        string               `json:"email"        validate:"required,email"`
	Password     string               `json:"password"     validate:"required,min=8"`
	Role         string               `json:"role"         validate:"required,oneof=administrator staff"`
	Capabilities *capabilitiesRequest `json:"capabilities"`
}

type updateUserRequest struct {
	FullName     *string              `json:"full_name"`
	Role         *string              `json:"role" validate:"omitempty,oneof=administrator staff"`
	Capabilities *capabilitiesRequest `json:"capabilities"`
	Active       *bool                `json:"active"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}
