package domain

import (
	"errors"
	"time"
)

const (
	RoleAdministrator = "administrator"
	RoleStaff         = "staff"
)

// Module names used for capability checks and route guards.
const (
	ModuleBeneficiaries = "beneficiaries"
	ModuleFinance       = "finance"
	ModuleWorkshops     = "workshops"
	ModuleReports       = "reports"
)

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateEmail = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserInactive = errors.New("user account is inactive")
var ErrTokenRevoked = errors.New("token has been revoked")
var ErrBootstrapClosed = errors.New("an administrator already exists")

// Capabilities holds the per-module permission flags of a staff account.
// Administrators implicitly hold every capability (see CanAccess).
type Capabilities struct {
	Beneficiaries bool `json:"beneficiaries" gorm:"not null;default:false"`
	Finance       bool `json:"finance" gorm:"not null;default:false"`
	Workshops     bool `json:"workshops" gorm:"not null;default:false"`
	Reports       bool `json:"reports" gorm:"not null;default:false"`
}

// AllCapabilities returns Capabilities with every flag set.
func AllCapabilities() Capabilities {
	return Capabilities{Beneficiaries: true, Finance: true, Workshops: true, Reports: true}
}

// DefaultStaffCapabilities returns the flags granted to a new staff account
// when none are specified: beneficiary intake only.
func DefaultStaffCapabilities() Capabilities {
	return Capabilities{Beneficiaries: true}
}

// Modules returns the names of the granted modules.
func (c Capabilities) Modules() []string {
	var mods []string
	if c.Beneficiaries {
		mods = append(mods, ModuleBeneficiaries)
	}
	if c.Finance {
		mods = append(mods, ModuleFinance)
	}
	if c.Workshops {
		mods = append(mods, ModuleWorkshops)
	}
	if c.Reports {
		mods = append(mods, ModuleReports)
	}
	return mods
}

// User models an authenticated actor in the system.
type User struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	FullName     string       `json:"full_name" gorm:"size:150;not null"`
	Email        string       `json:"email" gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string       `json:"-" gorm:"size:100;not null"`
	Role         string       `json:"role" gorm:"size:20;not null"`
	Capabilities Capabilities `json:"capabilities" gorm:"embedded;embeddedPrefix:cap_"`
	Active       bool         `json:"active" gorm:"not null;default:true"`
	LastAccessAt *time.Time   `json:"last_access_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CanAccess reports whether the user may use the named module.
// Administrators short-circuit true; staff need the capability flag.
func (u *User) CanAccess(module string) bool {
	if u.Role == RoleAdministrator {
		return true
	}
	switch module {
	case ModuleBeneficiaries:
		return u.Capabilities.Beneficiaries
	case ModuleFinance:
		return u.Capabilities.Finance
	case ModuleWorkshops:
		return u.Capabilities.Workshops
	case ModuleReports:
		return u.Capabilities.Reports
	default:
		return false
	}
}

// NormalizeCapabilities enforces the role invariant on write: an
// administrator always holds every capability.
func (u *User) NormalizeCapabilities() {
	if u.Role == RoleAdministrator {
		u.Capabilities = AllCapabilities()
	}
}
