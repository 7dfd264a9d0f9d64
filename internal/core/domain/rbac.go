package domain

import "time"

// RecordType distinguishes seeded system records from user-created ones.
type RecordType string

const (
	RecordTypeSystem RecordType = "system"
	RecordTypeCustom RecordType = "custom"
)

// RoleSuperAdmin is the distinguished role code that bypasses permission
// resolution entirely.
const RoleSuperAdmin = "super_admin"

// Role groups permission codes under a stable code.
//
// PermissionCodes are references, not ownership: a code may point at a
// permission that no longer exists and resolution tolerates that.
type Role struct {
	ID              string
	Name            string
	Code            string
	Description     *string
	PermissionCodes []string
	Type            RecordType
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsSystem reports whether the role is a seeded system record.
func (r Role) IsSystem() bool {
	return r.Type == RecordTypeSystem
}

// Permission is a named capability identified by a unique code.
type Permission struct {
	ID          string
	Name        string
	Code        string
	Description *string
	Resource    *string
	Type        RecordType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsSystem reports whether the permission is a seeded system record.
func (p Permission) IsSystem() bool {
	return p.Type == RecordTypeSystem
}
