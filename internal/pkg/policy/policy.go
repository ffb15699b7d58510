package policy

// User roles
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// Viewer is the authenticated principal a request acts as.
// Extracted once by middleware and passed down explicitly; services never
// reach into ambient request state. A nil Viewer is an anonymous visitor.
type Viewer struct {
	UID      int64
	Username string
	Role     int
}

// IsAdmin reports whether the viewer holds the admin role.
func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == RoleAdmin
}

// CanModify is the author-or-admin predicate shared by news items, threads
// and replies. authorID is the uid that owns the record.
func CanModify(v *Viewer, authorID int64) bool {
	if v == nil {
		return false
	}
	return v.Role == RoleAdmin || v.UID == authorID
}

// CanPin Only admins pin threads; authorship grants nothing here.
func CanPin(v *Viewer) bool {
	return v.IsAdmin()
}

// Denial is a soft business-rule refusal: the request is well-formed and
// authorized, but the mutation is skipped. Empty string means allowed.
type Denial string

const (
	DenyNone         Denial = ""
	DenyAlreadyAdmin Denial = "user is already an admin"
	DenySelfDemotion Denial = "you cannot demote yourself"
	DenyNotAdmin     Denial = "user is not an admin"
)

// CheckPromote returns the soft denial for promoting targetRole to admin.
func CheckPromote(targetRole int) Denial {
	if targetRole == RoleAdmin {
		return DenyAlreadyAdmin
	}
	return DenyNone
}

// CheckDemote returns the soft denial for actor demoting target.
func CheckDemote(actor *Viewer, targetUID int64, targetRole int) Denial {
	if actor != nil && actor.UID == targetUID {
		return DenySelfDemotion
	}
	if targetRole != RoleAdmin {
		return DenyNotAdmin
	}
	return DenyNone
}
