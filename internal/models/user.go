package models

// UserRole represents the roles taking part in the assessment protocol.
type UserRole string

const (
	RoleEmployee UserRole = "EMPLOYEE"
	RoleLead     UserRole = "LEAD"
	RoleHR       UserRole = "HR"
)

// Assessable reports whether users with this role can be the subject of an assessment.
func (r UserRole) Assessable() bool {
	return r == RoleEmployee || r == RoleLead
}

// User is the identity record resolved from the users table. Only the fields
// the workflow needs are mapped.
type User struct {
	ID       string   `db:"id" json:"id"`
	FullName string   `db:"full_name" json:"fullName"`
	Email    string   `db:"email" json:"email"`
	Role     UserRole `db:"role" json:"role"`
	LeadID   *string  `db:"lead_id" json:"leadId,omitempty"`
	HRID     *string  `db:"hr_id" json:"hrId,omitempty"`
	TeamID   *string  `db:"team_id" json:"teamId,omitempty"`
}

// Lead returns the user's lead id or "" when the user sits at the top of the hierarchy.
func (u *User) Lead() string {
	if u == nil || u.LeadID == nil {
		return ""
	}
	return *u.LeadID
}

// HR returns the user's assigned HR id or "".
func (u *User) HR() string {
	if u == nil || u.HRID == nil {
		return ""
	}
	return *u.HRID
}

// Team returns the user's team id or "".
func (u *User) Team() string {
	if u == nil || u.TeamID == nil {
		return ""
	}
	return *u.TeamID
}

// Summary trims the user down for embedding in assessment views.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, FullName: u.FullName, Role: u.Role, LeadID: u.LeadID, TeamID: u.TeamID}
}

// UserSummary is the public projection of a user.
type UserSummary struct {
	ID       string   `json:"id"`
	FullName string   `json:"fullName"`
	Role     UserRole `json:"role"`
	LeadID   *string  `json:"leadId,omitempty"`
	TeamID   *string  `json:"teamId,omitempty"`
}
