package models

import "gorm.io/gorm"

const (
	RoleAdmin   = "admin"
	RoleFounder = "founder"
	RoleUser    = "user"
)

// Role represents a permission group referenced by users.
type Role struct {
	gorm.Model

	Name        string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Description string `gorm:"type:text;not null;default:''"`
}

// DefaultRoles is the set of roles seeded on startup.
var DefaultRoles = []Role{
	{Name: RoleAdmin, Description: "Admin role"},
	{Name: RoleFounder, Description: "Founder role"},
	{Name: RoleUser, Description: "User role"},
}

// RolePatch lists the role fields an admin may change.
type RolePatch struct {
	Name        *string
	Description *string
}

// Apply merges the patch into r and returns the column names that changed.
func (p RolePatch) Apply(r *Role) []string {
	var changed []string
	if p.Name != nil && *p.Name != r.Name {
		r.Name = *p.Name
		changed = append(changed, "name")
	}
	if p.Description != nil && *p.Description != r.Description {
		r.Description = *p.Description
		changed = append(changed, "description")
	}
	return changed
}
