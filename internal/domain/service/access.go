package service

import (
	"eventhub/internal/domain/entity"
	"eventhub/pkg/errors"
)

// Caller is the resolved identity behind a request.
type Caller struct {
	ID   string
	Role entity.Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == entity.RoleAdmin
}

// RequireRole rejects callers whose role is outside roles. Admins get no
// override here: creation rights are strictly role-gated.
func RequireRole(caller Caller, action string, roles ...entity.Role) error {
	for _, r := range roles {
		if caller.Role == r {
			return nil
		}
	}
	return errors.Forbidden(forbiddenMessage(action, roles), nil)
}

// RequireOwnerOrAdmin allows admins and any caller listed in ownerIDs.
func RequireOwnerOrAdmin(caller Caller, action string, ownerIDs ...string) error {
	if caller.IsAdmin() {
		return nil
	}
	for _, id := range ownerIDs {
		if id != "" && id == caller.ID {
			return nil
		}
	}
	return errors.Forbidden("You are not allowed to "+action, nil)
}

// RequireParticipant allows only callers listed in participants.
func RequireParticipant(caller Caller, action string, participants []string) error {
	for _, p := range participants {
		if p == caller.ID {
			return nil
		}
	}
	return errors.Forbidden("You are not a participant of this conversation and cannot "+action, nil)
}

func forbiddenMessage(action string, roles []entity.Role) string {
	switch len(roles) {
	case 0:
		return "You are not allowed to " + action
	case 1:
		return "Only " + roleLabel(roles[0]) + " can " + action
	}
	msg := "Only "
	for i, r := range roles {
		if i > 0 {
			msg += " or "
		}
		msg += roleLabel(r)
	}
	return msg + " can " + action
}

func roleLabel(r entity.Role) string {
	switch r {
	case entity.RoleCustomer:
		return "customers"
	case entity.RoleServiceProvider:
		return "service providers"
	case entity.RoleAdmin:
		return "admins"
	}
	return string(r)
}
