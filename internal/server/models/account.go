package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole accepts the stored role names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Account is a row of the users table.
type Account struct {
	ID         string
	Username   string
	Credential Credential
	Role       Role
	// Cohort is the optional enrollment period tag, e.g. "(2025/2026)".
	Cohort *string
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// HasCohort reports whether a non-empty cohort tag is recorded.
func (a Account) HasCohort() bool {
	return a.Cohort != nil && *a.Cohort != ""
}

// CohortString returns the cohort tag or "" when none is recorded.
func (a Account) CohortString() string {
	if a.Cohort == nil {
		return ""
	}
	return *a.Cohort
}

// CohortPtr turns an optional cohort input into the stored form; blank input
// means no cohort.
func CohortPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
