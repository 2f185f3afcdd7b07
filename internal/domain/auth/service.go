package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"yatra-app-go/internal/domain/access"
)

// bcrypt ignores input past 72 bytes.
const maxSecretBytes = 72

type Service struct {
	creds    Credentials
	settings SettingsRepository
	members  MemberDirectory
	cost     int
}

// NewService falls back to bcrypt.DefaultCost for an out of range cost.
func NewService(creds Credentials, settings SettingsRepository, members MemberDirectory, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		creds:    creds,
		settings: settings,
		members:  members,
		cost:     cost,
	}
}

// Bootstrap seeds the admin secret when the settings store has none.
// It reports whether a secret was written.
func (s *Service) Bootstrap(ctx context.Context, defaultSecret string) (bool, error) {
	_, err := s.settings.GetSetting(ctx, AdminSecretKey)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrSettingNotFound) {
		return false, fmt.Errorf("load admin secret: %w", err)
	}

	if err := s.storeAdminSecret(ctx, defaultSecret); err != nil {
		return false, err
	}
	return true, nil
}

// Authenticate resolves the identifier in a fixed order: owner, admin, then
// devotee by mobile number. The first identity that matches decides the
// outcome; a wrong secret there is not retried against later identities.
func (s *Service) Authenticate(ctx context.Context, identifier, secret string) (Identity, error) {
	identifier = strings.TrimSpace(identifier)
	secret = strings.TrimSpace(secret)
	if identifier == "" || secret == "" {
		return Identity{}, ErrMissingCredentials
	}

	if s.creds.OwnerID != "" && identifier == s.creds.OwnerID {
		if !secretsEqual(secret, s.creds.OwnerSecret) {
			return Identity{}, &CredentialError{Role: access.RoleOwner}
		}
		return Identity{Role: access.RoleOwner, Name: access.RoleOwner.Label()}, nil
	}

	if s.creds.AdminID != "" && identifier == s.creds.AdminID {
		hash, err := s.settings.GetSetting(ctx, AdminSecretKey)
		if err != nil {
			if errors.Is(err, ErrSettingNotFound) {
				return Identity{}, &CredentialError{Role: access.RoleAdmin}
			}
			return Identity{}, fmt.Errorf("load admin secret: %w", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return Identity{}, &CredentialError{Role: access.RoleAdmin}
			}
			return Identity{}, fmt.Errorf("compare admin secret: %w", err)
		}
		return Identity{Role: access.RoleAdmin, Name: access.RoleAdmin.Label()}, nil
	}

	matches := s.members.FindByMobile(identifier)
	if len(matches) == 0 {
		return Identity{}, ErrIdentityNotFound
	}
	if !secretsEqual(secret, devoteeSecret(identifier)) {
		return Identity{}, &CredentialError{Role: access.RoleUser}
	}

	m := matches[0]
	return Identity{
		Role:         access.RoleUser,
		Name:         m.Name,
		MobileNumber: m.MobileNumber,
		MemberID:     m.ID,
	}, nil
}

// ChangeAdminSecret replaces the admin secret. The previous secret stays in
// force when the new one is rejected or cannot be stored.
func (s *Service) ChangeAdminSecret(ctx context.Context, newSecret string) error {
	return s.storeAdminSecret(ctx, strings.TrimSpace(newSecret))
}

func (s *Service) storeAdminSecret(ctx context.Context, secret string) error {
	if utf8.RuneCountInString(secret) < MinSecretLength {
		return ErrSecretTooShort
	}
	if len(secret) > maxSecretBytes {
		return ErrSecretTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return fmt.Errorf("hash admin secret: %w", err)
	}
	if err := s.settings.PutSetting(ctx, AdminSecretKey, string(hash)); err != nil {
		return fmt.Errorf("store admin secret: %w", err)
	}
	return nil
}

// devoteeSecret is the last four characters of the mobile number.
func devoteeSecret(mobile string) string {
	runes := []rune(mobile)
	if len(runes) <= DevoteeSecretLength {
		return mobile
	}
	return string(runes[len(runes)-DevoteeSecretLength:])
}

func secretsEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
