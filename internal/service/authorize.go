package service

import (
	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
)

type Action string

const (
	ActionListUsers  Action = "users:list"
	ActionCreateUser Action = "users:create"
	ActionViewUser   Action = "users:view"
	ActionUpdateUser Action = "users:update"
	ActionDeleteUser Action = "users:delete"
)

type accessScope int

const (
	adminOnly accessScope = iota
	selfOrAdmin
)

var policy = map[Action]accessScope{
	ActionListUsers:  adminOnly,
	ActionCreateUser: adminOnly,
	ActionViewUser:   selfOrAdmin,
	ActionUpdateUser: selfOrAdmin,
	ActionDeleteUser: adminOnly,
}

// Authorize is the whole permission model: a pure decision over the policy
// table, independent of any request plumbing. Unknown actions deny.
func Authorize(actor *domain.User, action Action, targetID uuid.UUID) error {
	if actor == nil {
		return NewUnauthenticated("Please authenticate")
	}
	scope, ok := policy[action]
	if !ok {
		return NewForbidden("Forbidden")
	}
	switch scope {
	case adminOnly:
		if actor.IsAdmin() {
			return nil
		}
	case selfOrAdmin:
		if actor.IsAdmin() || actor.ID == targetID {
			return nil
		}
	}
	return NewForbidden("Forbidden")
}
