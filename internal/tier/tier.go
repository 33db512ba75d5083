// Package tier is the single source of truth for subscription capability
// limits and template access. Both the API handlers and the UI (via GET
// /v1/tiers) consult the same table, so a limit is never encoded twice.
package tier

import "strings"

// Tier is a subscription level.
type Tier string

const (
	Starter Tier = "STARTER"
	Rise    Tier = "RISE"
	Blaze   Tier = "BLAZE"
)

// Unlimited marks a limit with no cap.
const Unlimited = -1

// Limits is the capability set granted by a tier.
type Limits struct {
	MaxPages           int  `json:"max_pages"`
	PasswordProtection bool `json:"password_protection"`
}

var limitsByTier = map[Tier]Limits{
	Starter: {MaxPages: 3, PasswordProtection: false},
	Rise:    {MaxPages: 10, PasswordProtection: true},
	Blaze:   {MaxPages: Unlimited, PasswordProtection: true},
}

var rankByTier = map[Tier]int{
	Starter: 0,
	Rise:    1,
	Blaze:   2,
}

// All lists the tiers in ascending order.
func All() []Tier {
	return []Tier{Starter, Rise, Blaze}
}

// Normalize maps a raw subscription string to a known tier. Unknown values
// fall back to Starter rather than erroring, so a bad subscription record can
// never unlock capabilities.
func Normalize(raw string) Tier {
	switch Tier(strings.ToUpper(strings.TrimSpace(raw))) {
	case Rise:
		return Rise
	case Blaze:
		return Blaze
	default:
		return Starter
	}
}

// LimitsFor returns the capability set for a tier. Pure and total.
func LimitsFor(t Tier) Limits {
	if l, ok := limitsByTier[t]; ok {
		return l
	}
	return limitsByTier[Starter]
}

// WithinPageLimit reports whether a profile holding currentCount pages may
// create one more under the given limits.
func (l Limits) WithinPageLimit(currentCount int) bool {
	if l.MaxPages == Unlimited {
		return true
	}
	return currentCount < l.MaxPages
}

// Rank orders tiers Starter < Rise < Blaze. Unknown tiers rank as Starter.
func Rank(t Tier) int {
	if r, ok := rankByTier[t]; ok {
		return r
	}
	return rankByTier[Starter]
}

// CanAccessTemplate reports whether a user on userTier may use a template
// requiring templateTier: access is granted when the user's rank is at least
// the template's.
func CanAccessTemplate(userTier, templateTier Tier) bool {
	return Rank(userTier) >= Rank(templateTier)
}

// RequiredTier names the tier a locked template needs, for UI messaging.
func RequiredTier(templateTier Tier) Tier {
	if _, ok := rankByTier[templateTier]; ok {
		return templateTier
	}
	return Starter
}
