package models

import (
	"time"
)

// Role represents the role of a platform user
type Role string

const (
	RoleStudent       Role = "student"
	RoleEmployer      Role = "employer"
	RoleFacultyMentor Role = "faculty-mentor"
	RoleAdmin         Role = "admin"
)

// DefaultRole is assigned when no role can be resolved from any source
const DefaultRole = RoleStudent

// AccountStatus tracks the approval state of a faculty mentor account.
// It is only meaningful for the faculty-mentor role and stays unset until
// an admin decides.
type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusApproved AccountStatus = "approved"
	StatusRejected AccountStatus = "rejected"
)

// UserProfile is the per-subject profile document. The document is keyed
// by the identity provider's uid and is written by merge only: fields not
// named in an update are preserved. Free-form profile fields supplied by
// the caller land in Extra and are stored under their wire names.
type UserProfile struct {
	UID           string        `bson:"_id" json:"uid"`
	Email         string        `bson:"email,omitempty" json:"email,omitempty"`
	Role          Role          `bson:"role,omitempty" json:"role,omitempty"`
	AccountStatus AccountStatus `bson:"accountStatus,omitempty" json:"accountStatus,omitempty"`
	CreatedAt     time.Time     `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt     time.Time     `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`

	Extra map[string]interface{} `bson:",inline" json:"-"`
}

// IsValidRole checks if a role string is one of the known roles
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleStudent, RoleEmployer, RoleFacultyMentor, RoleAdmin:
		return true
	}
	return false
}

// IsValidAccountStatus checks if a status string is a known account status
func IsValidAccountStatus(status string) bool {
	switch AccountStatus(status) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// View flattens the profile into the wire shape: free-form fields first,
// then the canonical fields on top so callers cannot shadow them.
func (p *UserProfile) View() map[string]interface{} {
	view := make(map[string]interface{}, len(p.Extra)+6)
	for k, v := range p.Extra {
		view[k] = v
	}
	view["uid"] = p.UID
	if p.Email != "" {
		view["email"] = p.Email
	}
	if p.Role != "" {
		view["role"] = p.Role
	}
	if p.AccountStatus != "" {
		view["accountStatus"] = p.AccountStatus
	}
	if !p.CreatedAt.IsZero() {
		view["createdAt"] = p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		view["updatedAt"] = p.UpdatedAt
	}
	return view
}
