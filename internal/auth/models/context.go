package models

// OperatingContext is the office/profile pair the session currently acts
// under, or the tenant-independent administrative mode. Exactly one context is
// active at a time, or none before resolution completes.
type OperatingContext struct {
	Administrative bool
	OfficeID       int64
	Profile        string
}

// AdministrativeContext returns the tenant-independent administrative context.
// Only system-admin identities may commit it.
func AdministrativeContext() OperatingContext {
	return OperatingContext{Administrative: true}
}

// ScopedContext returns a context scoped to one office under one profile.
func ScopedContext(officeID int64, profile string) OperatingContext {
	return OperatingContext{OfficeID: officeID, Profile: profile}
}

// Mode returns a short label for logging and metrics.
func (c OperatingContext) Mode() string {
	if c.Administrative {
		return "administrative"
	}
	return "scoped"
}
