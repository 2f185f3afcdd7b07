package auth

import (
	"errors"

	"yatra-app-go/internal/domain/access"
)

var (
	ErrMissingCredentials = errors.New("identifier and secret are required")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrSecretTooShort     = errors.New("secret must be at least 4 characters")
	ErrSecretTooLong      = errors.New("secret must be at most 72 bytes")
	ErrSettingNotFound    = errors.New("setting not found")
)

// CredentialError is a wrong secret for a known identity.
type CredentialError struct {
	Role access.Role
}

func (e *CredentialError) Error() string {
	return ErrInvalidCredential.Error()
}

func (e *CredentialError) Unwrap() error {
	return ErrInvalidCredential
}

// Hint is a user facing nudge for the rejected role, empty when there is none.
func (e *CredentialError) Hint() string {
	switch e.Role {
	case access.RoleUser:
		return "use the last 4 digits of your mobile number"
	case access.RoleOwner, access.RoleAdmin:
		return ""
	default:
		return ""
	}
}
