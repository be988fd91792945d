package domain

// Identity-provider group names carried in the token's groups claim.
const (
	GroupManagers = "Managers"
	GroupStaff    = "Staff"
)

// ClaimManagerID is the custom token claim naming the manager a staff
// account operates under.
const ClaimManagerID = "manager_id"

// CallerIdentity is the authenticated principal extracted from the inbound
// request's token. Built fresh per request, never persisted, immutable for
// the request's lifetime.
type CallerIdentity struct {
	SubjectID string
	Groups    []string
	Claims    map[string]string
}

// InGroup reports whether the caller's token carries the named group.
func (c CallerIdentity) InGroup(name string) bool {
	for _, g := range c.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// ManagerID returns the manager_id custom claim, empty when absent.
func (c CallerIdentity) ManagerID() string {
	return c.Claims[ClaimManagerID]
}

// Entitlement is the result of resolving a caller against the account store.
// For managers only Account is set and carries its own subscription. For
// staff, Account is the staff member's record and Manager is the
// entitlement-bearing manager record. Exactly one of the two shapes holds
// after a successful resolution.
type Entitlement struct {
	Account *Account
	Manager *Account
}

// IsStaff reports whether the caller resolved through the delegated staff
// path.
func (e *Entitlement) IsStaff() bool {
	return e.Manager != nil
}

// Entitled returns the account whose subscription gates access: the manager
// record on the staff path, the caller's own record otherwise.
func (e *Entitlement) Entitled() *Account {
	if e.Manager != nil {
		return e.Manager
	}
	return e.Account
}
