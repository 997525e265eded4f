package models

import "github.com/google/uuid"

// Identity is the authenticated user for the duration of one session.
// SystemAdmin is immutable until the next login.
type Identity struct {
	ID          uuid.UUID
	Name        string
	Email       string
	SystemAdmin bool
}

// OfficeMembership is one office the identity belongs to, together with the
// role profiles it grants there. The profile order is the backend's order and
// is meaningful: the first profile is the default suggestion during context
// selection. Read-only after login; refreshed only by re-login or an explicit
// reload of available offices.
type OfficeMembership struct {
	OfficeID  int64
	TradeName string
	LegalName string
	Color     string
	Profiles  []string
}

// HasProfile reports whether the membership grants the named profile.
func (m OfficeMembership) HasProfile(profile string) bool {
	for _, p := range m.Profiles {
		if p == profile {
			return true
		}
	}
	return false
}

// MembershipFor returns the membership matching officeID, if any.
func MembershipFor(memberships []OfficeMembership, officeID int64) (OfficeMembership, bool) {
	for _, m := range memberships {
		if m.OfficeID == officeID {
			return m, true
		}
	}
	return OfficeMembership{}, false
}

// GlobalProfiles is the fixed catalog of profiles a system admin may simulate
// when entering an office it does not natively belong to. The backend treats
// this as a global taxonomy rather than the union of per-office profile sets.
var GlobalProfiles = []string{
	"Administrador",
	"Advogado",
	"Financeiro",
	"Atendimento",
}

// IsGlobalProfile reports whether the named profile is in the global catalog.
func IsGlobalProfile(profile string) bool {
	for _, p := range GlobalProfiles {
		if p == profile {
			return true
		}
	}
	return false
}
