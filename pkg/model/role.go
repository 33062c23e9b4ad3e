package model

import "strings"

// Role is the closed set of user roles the task store knows about.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdministrator
	RoleManager
	RoleEmployee
)

// ParseRole maps a wire role onto a Role. Anything unrecognized becomes
// RoleUnknown so that policy checks fail closed.
func ParseRole(s string) Role {
	switch strings.TrimSpace(s) {
	case "Administrator":
		return RoleAdministrator
	case "Manager":
		return RoleManager
	case "Employee":
		return RoleEmployee
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "Administrator"
	case RoleManager:
		return "Manager"
	case RoleEmployee:
		return "Employee"
	default:
		return "Unknown"
	}
}

// Set implements pflag.Value. Only the three known roles are accepted.
func (r *Role) Set(s string) error {
	parsed := ParseRole(s)
	if parsed == RoleUnknown {
		return &EnumError{Kind: "role", Value: s}
	}
	*r = parsed
	return nil
}

// Type implements pflag.Value.
func (r *Role) Type() string { return "role" }

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	*r = ParseRole(string(b))
	return nil
}

// Session is the identity resolved once per login. It is a plain value;
// nothing in the module mutates it after construction.
type Session struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
