package access

// Role is the closed set of caller classifications, strictly ordered
// None < Assistant < Owner < Master.
type Role int

const (
	RoleNone Role = iota
	RoleAssistant
	RoleOwner
	RoleMaster
)

func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "master"
	case RoleOwner:
		return "owner"
	case RoleAssistant:
		return "assistant"
	default:
		return "none"
	}
}

// AtLeast reports whether r carries at least min's privileges.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}
