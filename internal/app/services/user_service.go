package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/repositories"
	"github.com/ddct/showcase/internal/pkg/apperrors"
	"github.com/ddct/showcase/internal/pkg/auth"
	"github.com/ddct/showcase/internal/pkg/helpers"
	"github.com/ddct/showcase/internal/pkg/media"
	"github.com/ddct/showcase/internal/pkg/validation"
)

// UserService handles profile operations and admin account management
type UserService struct {
	userRepo    *repositories.UserRepository
	tokenRepo   *repositories.TokenRepository
	resolver    *media.Resolver
	placeholder string
	logger      zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	resolver *media.Resolver,
	placeholder string,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		resolver:    resolver,
		placeholder: placeholder,
		logger:      logger,
	}
}

// toResponse resolves the profile photo and converts to a DTO
func (s *UserService) toResponse(ctx context.Context, user *models.User) dto.UserResponse {
	photoURL := ""
	if user.ProfilePhotoURL != nil && *user.ProfilePhotoURL != "" {
		photoURL = s.resolver.Resolve(ctx, *user.ProfilePhotoURL, s.placeholder)
	}
	return dto.FromUser(user, photoURL)
}

// GetProfile returns a user's profile
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, user)
	return &resp, nil
}

// UpdateProfile edits the caller's own profile
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Bio = req.Bio
	user.Skills = validation.NormalizeTags(req.Skills)
	if user.Role == models.RolePartner && req.Organization != nil {
		user.Organization = req.Organization
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, user)
	return &resp, nil
}

// UpdateProfilePhoto stores the new photo reference on the profile
func (s *UserService) UpdateProfilePhoto(ctx context.Context, userID int64, photoPath string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.ProfilePhotoURL = &photoPath
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, user)
	return &resp, nil
}

// ListUsers returns accounts filtered by role, paginated. Admin only.
func (s *UserService) ListUsers(ctx context.Context, role string, page, size int) (*dto.UserListResponse, error) {
	var roleFilter *models.RoleType
	if role != "" {
		r := models.RoleType(strings.ToUpper(role))
		switch r {
		case models.RoleAdmin, models.RoleStudent, models.RolePartner:
			roleFilter = &r
		default:
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown role: %s", role))
		}
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	users, total, err := s.userRepo.List(ctx, roleFilter, int(offset), limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, s.toResponse(ctx, user))
	}

	return &dto.UserListResponse{
		Users:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// CreateUser provisions an account with any role. Admin only.
func (s *UserService) CreateUser(ctx context.Context, req *dto.AdminCreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperrors.ErrInvalidEmail
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email existence: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Password:     hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         req.Role,
		CohortYear:   req.CohortYear,
		Organization: req.Organization,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", user.ID).
		Str("role", string(user.Role)).
		Msg("User provisioned by admin")

	resp := s.toResponse(ctx, user)
	return &resp, nil
}

// UpdateUser edits an account. Admin only. Deactivation revokes the
// user's refresh tokens so open sessions expire with the access token.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.CohortYear != nil {
		user.CohortYear = req.CohortYear
	}
	if req.Organization != nil {
		user.Organization = req.Organization
	}

	deactivated := false
	if req.IsActive != nil {
		deactivated = user.IsActive && !*req.IsActive
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if deactivated {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
			s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens on deactivation")
		}
	}

	resp := s.toResponse(ctx, user)
	return &resp, nil
}

// DeleteUser removes an account entirely. Admin only. Projects owned
// by the user cascade away; deactivation is the reversible option.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens before delete")
	}
	return s.userRepo.Delete(ctx, userID)
}
