package auth

// Rule is a declarative per-operation authorization requirement evaluated
// against the resolved identity. Handlers deny with a single uniform
// Unauthorized response; the rule that failed is never exposed.
type Rule func(Identity) bool

// Allows reports whether ident satisfies the rule.
func (r Rule) Allows(ident Identity) bool { return r(ident) }

// Public admits any caller, anonymous included.
var Public Rule = func(Identity) bool { return true }

// Authenticated requires a connected identity.
var Authenticated Rule = func(id Identity) bool { return id.Connected }

// AdminOnly requires a connected administrator.
var AdminOnly Rule = func(id Identity) bool { return id.Connected && id.IsAdmin }

// SelfOrAdmin admits the owner of the target account or any administrator.
func SelfOrAdmin(targetID int64) Rule {
	return func(id Identity) bool {
		return id.Connected && (id.UserID == targetID || id.IsAdmin)
	}
}

// CanGrantAdmin guards privilege escalation: a payload requesting the
// admin flag is only honored when the caller already holds it.
func CanGrantAdmin(id Identity, wantAdmin bool) bool {
	if !wantAdmin {
		return true
	}
	return id.Connected && id.IsAdmin
}
