package gate

import "praxis/internal/auth/models"

// Session is the read surface the gate needs from the session state.
type Session interface {
	Identity() (models.Identity, bool)
	Context() (models.OperatingContext, bool)
}

// Gate is the synchronous predicate protected views consult before rendering.
// A failing gate means the view renders its access-denied state and fetches
// nothing; no protected data moves before the gate passes.
type Gate struct {
	session Session
}

// New creates a gate over the given session.
func New(session Session) *Gate {
	return &Gate{session: session}
}

// CanEnterAdminArea is true only when the identity holds the system-admin
// capability and the committed context is administrative. Holding the
// capability alone is not enough; the admin must have explicitly entered
// administrative mode.
func (g *Gate) CanEnterAdminArea() bool {
	identity, ok := g.session.Identity()
	if !ok || !identity.SystemAdmin {
		return false
	}
	context, ok := g.session.Context()
	return ok && context.Administrative
}
