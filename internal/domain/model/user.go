package model

import "strings"

const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// HasRole compares roles case-insensitively; the backend is not consistent
// about casing.
func (u *User) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, role := range roles {
		if strings.EqualFold(u.Role, role) {
			return true
		}
	}
	return false
}

func (u *User) IsTeacher() bool {
	return u.HasRole(RoleTeacher, RoleAdmin)
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// GitHubRepo is one entry of the linked GitHub account's repository list.
type GitHubRepo struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}
