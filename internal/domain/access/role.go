package access

import (
	"fmt"
	"strings"
)

// Role is the closed set of actors. Every gate below switches over all three
// values; a new role has to be added to each switch.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Label is the name shown to people, "user" is a devotee.
func (r Role) Label() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RoleAdmin:
		return "Admin"
	case RoleUser:
		return "Devotee"
	default:
		return ""
	}
}

// HomePath is the dashboard a freshly logged in actor lands on.
func (r Role) HomePath() string {
	switch r {
	case RoleOwner:
		return "/owner"
	case RoleAdmin:
		return "/admin"
	case RoleUser:
		return "/user"
	default:
		return "/"
	}
}

func (r Role) CanManageMembers() bool {
	switch r {
	case RoleOwner, RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

func (r Role) CanImportMembers() bool {
	switch r {
	case RoleOwner:
		return true
	case RoleAdmin, RoleUser:
		return false
	default:
		return false
	}
}

func (r Role) CanChangeAdminSecret() bool {
	switch r {
	case RoleOwner:
		return true
	case RoleAdmin, RoleUser:
		return false
	default:
		return false
	}
}

func (r Role) CanManageReceivers() bool {
	switch r {
	case RoleOwner, RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

func (r Role) CanViewDashboard() bool {
	switch r {
	case RoleOwner, RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

func (r Role) CanViewOwnRecords() bool {
	switch r {
	case RoleUser:
		return true
	case RoleOwner, RoleAdmin:
		return false
	default:
		return false
	}
}

// SeesOwnerReceivers reports whether receiver names reserved for the owner
// are visible unredacted to this role.
func (r Role) SeesOwnerReceivers() bool {
	switch r {
	case RoleOwner:
		return true
	case RoleAdmin:
		return false
	case RoleUser:
		return false
	default:
		return false
	}
}

// IsOwnerReserved reports whether a payment receiver name is reserved for
// the owner and must be hidden from roles that do not see owner receivers.
func IsOwnerReserved(name string) bool {
	return strings.Contains(strings.ToLower(name), "owner")
}
