package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID              int64      `json:"id" db:"id" example:"1"`                                                         // Unique identifier for the user
	Email           string     `json:"email" db:"email" example:"student@ddct.edu"`                                    // User's email address
	Password        string     `json:"-" db:"password"`                                                                // User's hashed password (excluded from JSON)
	FirstName       string     `json:"firstName" db:"first_name" example:"Mia"`                                        // User's first name
	LastName        string     `json:"lastName" db:"last_name" example:"Santos"`                                       // User's last name
	Role            RoleType   `json:"role" db:"role" example:"STUDENT"`                                               // User's role (ADMIN, STUDENT or PARTNER)
	CohortYear      *int       `json:"cohortYear,omitempty" db:"cohort_year" example:"2026"`                           // Graduation cohort for students (nullable)
	Organization    *string    `json:"organization,omitempty" db:"organization" example:"Studio North"`                // Affiliation for partners (nullable)
	Bio             *string    `json:"bio,omitempty" db:"bio"`                                                         // Short profile text (nullable)
	Skills          []string   `json:"skills" db:"skills" example:"unity,arduino"`                                     // Self-reported skill tags
	IsActive        bool       `json:"isActive" db:"is_active" example:"true"`                                         // Whether the user account is active
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2026-04-20T18:00:00Z"`        // Timestamp of the last login (nullable)
	ProfilePhotoURL *string    `json:"profilePhotoUrl,omitempty" db:"profile_photo_url" example:"uploads/profile.jpg"` // URL of the user's profile photo (nullable)
	CreatedAt       time.Time  `json:"createdAt" db:"created_at" example:"2026-01-01T10:00:00Z"`                       // Timestamp when the user was created
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at" example:"2026-01-02T15:30:00Z"`                       // Timestamp when the user was last updated
}

// FullName returns the display name used across listings and exports.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RefreshToken is a stored refresh token row
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
