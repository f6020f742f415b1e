package rbac

import "time"

// Built-in roles. Their permission sets live in role_permissions.
const (
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// User is a member of a business with exactly one role.
type User struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Permission represents an atomic capability granted to a role.
type Permission struct {
	Role string `json:"role"`
	Name string `json:"name"`
}
