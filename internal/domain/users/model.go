package users

import (
	"errors"
	"time"
)

type Role string

const (
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID         int64
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	LineNumber string // line the operator reports for by default
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

type Telegram struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// merge keeps an existing admin an admin.
func merge(role, requested Role) Role {
	if role == RoleAdmin {
		return role
	}
	return requested
}
