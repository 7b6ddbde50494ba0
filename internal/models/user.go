package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role determines what a user may do. Authorization is enforced
// server-side on every operation; client-side menu hiding is cosmetic.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleComplianceOfficer Role = "compliance_officer"
	RoleExternalAuditor   Role = "external_auditor"
	RoleEmployee          Role = "employee"
)

// ValidRoles lists every assignable role.
var ValidRoles = []Role{RoleAdmin, RoleComplianceOfficer, RoleExternalAuditor, RoleEmployee}

// IsValid reports whether the role is one of the assignable roles.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// CanManage reports whether the role may mutate compliance entities
// (frameworks, controls, policies, risks, evidence).
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleComplianceOfficer
}

// CanRead reports whether the role may read compliance entities and reports.
// Employees are limited to published policies and their own obligations.
func (r Role) CanRead() bool {
	return r == RoleAdmin || r == RoleComplianceOfficer || r == RoleExternalAuditor
}

// User represents a platform account. Email is immutable after creation.
type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	UUID                string     `json:"uuid" gorm:"uniqueIndex"`
	Email               string     `json:"email" gorm:"uniqueIndex"`
	PasswordHash        string     `json:"-"` // Never serialize password hash
	FullName            string     `json:"full_name"`
	Role                Role       `json:"role" gorm:"default:'employee'"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LockedUntil         *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
