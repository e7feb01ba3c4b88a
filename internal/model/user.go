// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLES
// =============================================================================

// Role identifies what a user may do in the system.
type Role string

const (
	RoleEmployee      Role = "employee"
	RoleManager       Role = "manager"
	RoleTravelAdmin   Role = "traveladmin"
	RoleAdministrator Role = "administrator"
)

// String returns the display string for the role.
func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "Employee"
	case RoleManager:
		return "Manager"
	case RoleTravelAdmin:
		return "Travel Admin"
	case RoleAdministrator:
		return "Administrator"
	default:
		return string(r)
	}
}

// ParseRole parses a role string, tolerating case and separator variations
// ("Travel Admin", "travel_admin", "travelAdmin" all parse). Returns
// RoleEmployee and false for unrecognized input.
func ParseRole(s string) (Role, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "")
	norm = strings.ReplaceAll(norm, "_", "")
	norm = strings.ReplaceAll(norm, "-", "")
	switch norm {
	case "employee", "user":
		return RoleEmployee, true
	case "manager", "approver":
		return RoleManager, true
	case "traveladmin", "travelagent":
		return RoleTravelAdmin, true
	case "administrator", "admin":
		return RoleAdministrator, true
	default:
		return RoleEmployee, false
	}
}

// =============================================================================
// USER
// =============================================================================

// User is an account as served by the backend and cached locally after login.
type User struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Role           Role      `json:"role"`
	DepartmentID   int       `json:"departmentId"`
	DepartmentName string    `json:"departmentName,omitempty"`
	ManagerID      int       `json:"managerId,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DisplayName returns "First Last", falling back to the email address.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// =============================================================================
// LOOKUPS
// =============================================================================

// Department is an organizational unit travel requests are charged against.
type Department struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	CostCode  string  `json:"costCode,omitempty"`
	ManagerID int     `json:"managerId,omitempty"`
	Budget    float64 `json:"budget,omitempty"`
}

// Project is a bookable project travel can be attributed to.
type Project struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code,omitempty"`
	DepartmentID int       `json:"departmentId,omitempty"`
	Active       bool      `json:"active"`
	EndsAt       time.Time `json:"endsAt,omitempty"`
}
