// Package resolver holds the pure decision procedure that determines, after
// authentication, whether the caller must be prompted for an office/profile
// choice or whether a unique operating context can be entered directly.
//
// The procedure is deliberately side-effect free: navigation and session
// commits happen in the lifecycle layer, so this logic is unit-testable
// without any rendering or network environment.
package resolver

import "praxis/internal/auth/models"

// Outcome classifies a resolution decision.
type Outcome int

const (
	// OutcomeAutoResolved means a unique context exists and may be committed
	// without user interaction.
	OutcomeAutoResolved Outcome = iota
	// OutcomeRequiresPrompt means the caller must ask the user to choose.
	OutcomeRequiresPrompt
)

// Decision is the result of resolving a membership set.
//
// When the outcome is OutcomeRequiresPrompt and exactly one office is
// available, PreselectedOfficeID and SuggestedProfile pre-seed the selection
// UI so the user only confirms or changes the profile. NoProfilesAvailable
// flags the degenerate single-office-zero-profiles case so the UI can show an
// explicit empty state instead of guessing a default.
type Decision struct {
	Outcome             Outcome
	Context             models.OperatingContext
	PreselectedOfficeID *int64
	SuggestedProfile    string
	NoProfilesAvailable bool
}

// Resolve inspects the membership set and the system-admin capability.
//
// Rules, in order:
//  1. A system admin is always prompted: administrative mode is never entered
//     implicitly, and the admin must choose between it and a scoped mode.
//  2. One office, one profile: auto-resolve to that pair.
//  3. One office, several profiles: prompt, pre-seeded with the office and its
//     first profile.
//  4. Zero offices or several offices: prompt with no pre-selection.
func Resolve(memberships []models.OfficeMembership, systemAdmin bool) Decision {
	if systemAdmin {
		return Decision{Outcome: OutcomeRequiresPrompt}
	}

	if len(memberships) == 1 {
		only := memberships[0]
		switch len(only.Profiles) {
		case 0:
			officeID := only.OfficeID
			return Decision{
				Outcome:             OutcomeRequiresPrompt,
				PreselectedOfficeID: &officeID,
				NoProfilesAvailable: true,
			}
		case 1:
			return Decision{
				Outcome: OutcomeAutoResolved,
				Context: models.ScopedContext(only.OfficeID, only.Profiles[0]),
			}
		default:
			officeID := only.OfficeID
			return Decision{
				Outcome:             OutcomeRequiresPrompt,
				PreselectedOfficeID: &officeID,
				SuggestedProfile:    only.Profiles[0],
			}
		}
	}

	return Decision{Outcome: OutcomeRequiresPrompt}
}
