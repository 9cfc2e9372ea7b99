package auth

// Decision is the outcome of an ownership check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Authorize allows admins and the resource owner; everyone else is denied.
// Callers must confirm the resource exists before asking, so that a missing
// resource is reported as not found regardless of who asks.
func Authorize(actor Actor, ownerID string) Decision {
	if actor.IsAdmin() {
		return Allow
	}
	if actor.ID != "" && actor.ID == ownerID {
		return Allow
	}
	return Deny
}
