package dto

import "github.com/ddct/showcase/internal/app/models"

// UserResponse represents basic user information
type UserResponse struct {
	ID              int64    `json:"id"`
	Email           string   `json:"email"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Role            string   `json:"role"`
	CohortYear      *int     `json:"cohortYear,omitempty"`
	Organization    *string  `json:"organization,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	Skills          []string `json:"skills"`
	IsActive        bool     `json:"isActive"`
	ProfilePhotoURL string   `json:"profilePhotoUrl,omitempty"`
}

// FromUser converts a models.User to a UserResponse. The profile photo
// URL is resolved by the caller since it may need signing.
func FromUser(user *models.User, photoURL string) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            string(user.Role),
		CohortYear:      user.CohortYear,
		Organization:    user.Organization,
		Bio:             user.Bio,
		Skills:          user.Skills,
		IsActive:        user.IsActive,
		ProfilePhotoURL: photoURL,
	}
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName    string   `json:"firstName" binding:"required"`
	LastName     string   `json:"lastName" binding:"required"`
	Bio          *string  `json:"bio,omitempty"`
	Skills       []string `json:"skills,omitempty" binding:"omitempty,max=20,dive,max=40"`
	Organization *string  `json:"organization,omitempty"`
}

// AdminCreateUserRequest represents an admin provisioning a new account
type AdminCreateUserRequest struct {
	Email        string          `json:"email" binding:"required,email"`
	Password     string          `json:"password" binding:"required,min=8"`
	FirstName    string          `json:"firstName" binding:"required"`
	LastName     string          `json:"lastName" binding:"required"`
	Role         models.RoleType `json:"role" binding:"required"`
	CohortYear   *int            `json:"cohortYear,omitempty"`
	Organization *string         `json:"organization,omitempty"`
}

// AdminUpdateUserRequest represents an admin editing an account
type AdminUpdateUserRequest struct {
	FirstName    *string          `json:"firstName,omitempty"`
	LastName     *string          `json:"lastName,omitempty"`
	Role         *models.RoleType `json:"role,omitempty"`
	CohortYear   *int             `json:"cohortYear,omitempty"`
	Organization *string          `json:"organization,omitempty"`
	IsActive     *bool            `json:"isActive,omitempty"`
}

// UserListResponse represents a paginated user listing
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}
