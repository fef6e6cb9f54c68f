// ABOUTME: Wire types for the employee management identity and dashboard API
// ABOUTME: Users, roles, credentials, login results and dashboard payloads

package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is one of the two flat roles the system knows about
type Role string

const (
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// Roles lists every known role
var Roles = []Role{RoleHR, RoleEmployee}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleHR || r == RoleEmployee
}

// Label returns a display name for the role
func (r Role) Label() string {
	switch r {
	case RoleHR:
		return "HR"
	case RoleEmployee:
		return "Employee"
	default:
		return "Unknown"
	}
}

// ParseRole converts a string to a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User is the authenticated user's profile
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Department string    `json:"department"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FullName joins first and last name, falling back to the username
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}

// UserPatch is a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	Username   *string
	Email      *string
	Role       *Role
	FirstName  *string
	LastName   *string
	Department *string
	IsActive   *bool
}

// Apply returns a copy of u with the patch merged in
func (u User) Apply(p UserPatch) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	return u
}

// Credentials is the login form input. It is never persisted.
type Credentials struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

// LoginResult is the payload of a successful POST /auth/login
type LoginResult struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// envelope is the wrapper every API response uses
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Success *bool           `json:"success,omitempty"`
}

// Employee is an employee record as shown on the employee dashboard
type Employee struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	EmployeeID   string    `json:"employeeId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	Position     string    `json:"position"`
	HireDate     time.Time `json:"hireDate"`
	IsActive     bool      `json:"isActive"`
	LeaveBalance float64   `json:"leaveBalance"`
}

// LeaveRequest is a single leave request
type LeaveRequest struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	LeaveType   string    `json:"leaveType"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	HRComments  string    `json:"hrComments,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Activity is one entry in the HR dashboard activity feed
type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// HRMetrics is the GET /dashboard/hr payload
type HRMetrics struct {
	EmployeeCount        int        `json:"employeeCount"`
	PendingLeaveRequests int        `json:"pendingLeaveRequests"`
	RecentActivity       []Activity `json:"recentActivity"`
}

// EmployeeDashboard is the GET /dashboard/employee payload
type EmployeeDashboard struct {
	PersonalInfo   Employee       `json:"personalInfo"`
	LeaveBalance   float64        `json:"leaveBalance"`
	RecentRequests []LeaveRequest `json:"recentRequests"`
}
