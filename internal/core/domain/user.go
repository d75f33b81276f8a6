package domain

import "time"

// User represents an authenticated identity in the domain. A user belongs to
// one or more organizations through RoleAssignment rows.
type User struct {
	UserID             string     `json:"userID" db:"user_id"` // Primary key (UUID)
	Name               string     `json:"name" db:"name"`
	Email              string     `json:"email" db:"email"`
	PasswordHash       string     `json:"-" db:"password_hash"` // Empty for OAuth-only users
	AuthProvider       string     `json:"authProvider,omitempty" db:"auth_provider"`
	ProviderUserID     string     `json:"-" db:"provider_user_id"`
	RefreshTokenHash   *string    `json:"-" db:"refresh_token_hash"`
	RefreshTokenExpiry *time.Time `json:"-" db:"refresh_token_expiry"`
	// IsPlatformAdmin marks a platform operator: may mint subscription keys,
	// suspend organizations and bypass the subscription gate.
	IsPlatformAdmin bool `json:"isPlatformAdmin" db:"is_platform_admin"`
	// IsProtected marks the platform owner account, exempt from demotion or
	// deletion by other admins.
	IsProtected bool `json:"isProtected" db:"is_protected"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Soft delete
}

// GoogleUserInfo mirrors the Google userinfo endpoint response consumed
// during the OAuth callback flow.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}
