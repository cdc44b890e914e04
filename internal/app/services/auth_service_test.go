package services

import (
	"testing"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/models/dto"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestValidateRegistrationDefaultsToStudent(t *testing.T) {
	s := &AuthService{}

	req := &dto.RegisterRequest{
		Email:      "ada@example.edu",
		Password:   "long-enough-pw",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		CohortYear: intPtr(2026),
	}
	if err := s.validateRegistration(req); err != nil {
		t.Fatalf("validateRegistration without role: %v", err)
	}
	if req.Role != models.RoleStudent {
		t.Fatalf("defaulted role = %s, want %s", req.Role, models.RoleStudent)
	}

	// The student requirements apply to the defaulted role too.
	noCohort := &dto.RegisterRequest{
		Email:     "ada@example.edu",
		Password:  "long-enough-pw",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
	if err := s.validateRegistration(noCohort); err == nil {
		t.Fatal("role-less registration without a cohort year was accepted")
	}
}

func TestValidateRegistrationRejectsBadRoles(t *testing.T) {
	s := &AuthService{}

	admin := &dto.RegisterRequest{
		Email:     "root@example.edu",
		Password:  "long-enough-pw",
		FirstName: "Root",
		LastName:  "User",
		Role:      models.RoleAdmin,
	}
	if err := s.validateRegistration(admin); err == nil {
		t.Fatal("admin self-registration was accepted")
	}

	partner := &dto.RegisterRequest{
		Email:     "scout@example.com",
		Password:  "long-enough-pw",
		FirstName: "Talent",
		LastName:  "Scout",
		Role:      models.RolePartner,
	}
	if err := s.validateRegistration(partner); err == nil {
		t.Fatal("partner registration without an organization was accepted")
	}

	partner.Organization = strPtr("Acme Studios")
	if err := s.validateRegistration(partner); err != nil {
		t.Fatalf("partner registration with organization: %v", err)
	}
}
