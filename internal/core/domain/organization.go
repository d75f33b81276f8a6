package domain

import "errors"

// Organization lifecycle failure reasons, surfaced verbatim as error codes.
var (
	ErrOrgNotFound        = errors.New("organization_not_found")
	ErrOrgNotInOnboarding = errors.New("organization_not_in_onboarding")
	ErrOrgSuspendedState  = errors.New("organization_suspended")
	ErrInvalidTransition  = errors.New("invalid_lifecycle_transition")
)

// OrgStatus is the lifecycle state of an organization (tenant).
type OrgStatus string

const (
	OrgStatusPendingActivation OrgStatus = "PENDING_ACTIVATION" // Created, no subscription key redeemed yet
	OrgStatusOnboarding        OrgStatus = "ONBOARDING"         // Key redeemed, initial setup not completed
	OrgStatusActive            OrgStatus = "ACTIVE"             // Fully operational
	OrgStatusSuspended         OrgStatus = "SUSPENDED"          // Disabled by platform action
)

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step.
// The lifecycle only moves forward (pending -> onboarding -> active); suspension
// is allowed from any state. Unsuspension restores the state the organization was
// suspended from, so SUSPENDED may step back to any of the three normal states —
// the restore target itself is recorded in Organization.SuspendedFrom.
func (s OrgStatus) CanTransitionTo(next OrgStatus) bool {
	if next == OrgStatusSuspended {
		return s != OrgStatusSuspended
	}
	switch s {
	case OrgStatusPendingActivation:
		return next == OrgStatusOnboarding
	case OrgStatusOnboarding:
		return next == OrgStatusActive
	case OrgStatusSuspended:
		return next == OrgStatusPendingActivation ||
			next == OrgStatusOnboarding ||
			next == OrgStatusActive
	default:
		return false
	}
}

// AppModule identifies a feature module that can be enabled for an organization.
type AppModule string

const (
	ModuleFinancial   AppModule = "financial"
	ModuleHRMS        AppModule = "hrms"
	ModulePerformance AppModule = "performance"
	ModuleAudit       AppModule = "audit"
	ModuleAssets      AppModule = "assets"
)

// AllModules lists every known feature module.
var AllModules = []AppModule{ModuleFinancial, ModuleHRMS, ModulePerformance, ModuleAudit, ModuleAssets}

// ValidModule reports whether m names a known feature module.
func ValidModule(m AppModule) bool {
	for _, known := range AllModules {
		if m == known {
			return true
		}
	}
	return false
}

// Organization represents an isolated tenant containing all business data.
type Organization struct {
	OrganizationID string      `json:"organizationID" db:"organization_id"` // Primary key (UUID)
	Name           string      `json:"name" db:"name"`
	Status         OrgStatus   `json:"status" db:"status"`
	SuspendedFrom  OrgStatus   `json:"-" db:"suspended_from"`               // Status at suspension time; empty unless SUSPENDED
	EnabledModules []AppModule `json:"enabledModules" db:"enabled_modules"` // Fixed at activation from the redeemed key
	Version        int64       `json:"version" db:"version"`                // Optimistic locking
	AuditFields
}

// ResumeStatus is the state an organization returns to when unsuspended.
// Organizations suspended before suspended_from was recorded fall back to ACTIVE.
func (o *Organization) ResumeStatus() OrgStatus {
	if o.SuspendedFrom != "" {
		return o.SuspendedFrom
	}
	return OrgStatusActive
}

// HasModule reports whether the given feature module is enabled for the organization.
func (o *Organization) HasModule(m AppModule) bool {
	for _, enabled := range o.EnabledModules {
		if enabled == m {
			return true
		}
	}
	return false
}
