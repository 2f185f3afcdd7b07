package auth

import "yatra-app-go/internal/domain/access"

// AdminSecretKey is the settings key holding the admin secret hash.
const AdminSecretKey = "admin_secret"

// MinSecretLength is counted in characters, not bytes.
const MinSecretLength = 4

// DevoteeSecretLength is how many trailing characters of a mobile number
// form a devotee's secret.
const DevoteeSecretLength = 4

// Credentials are the fixed identifiers configured for the deployment.
type Credentials struct {
	OwnerID     string
	OwnerSecret string
	AdminID     string
}

// Identity is who a successful login resolved to. MobileNumber and MemberID
// are only set for devotees.
type Identity struct {
	Role         access.Role
	Name         string
	MobileNumber string
	MemberID     string
}
