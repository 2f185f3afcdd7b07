package auth

import (
	"context"

	"yatra-app-go/internal/domain/member"
)

// SettingsRepository is the key/value settings store. GetSetting returns
// ErrSettingNotFound for a missing key.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
}

// MemberDirectory looks devotees up by mobile number.
type MemberDirectory interface {
	FindByMobile(mobile string) []member.Member
}
