package models

import "fmt"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Principal is an identity issued by the auth provider. It carries no role.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// User is the profile stored per principal in the users collection.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the resolved identity every repository call is made on behalf of.
type Session struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
