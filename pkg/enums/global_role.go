package enums

import "fmt"

// GlobalRole is a platform-wide role assigned to a user.
type GlobalRole string

const (
	GlobalRoleGeneralAdmin   GlobalRole = "general_admin"
	GlobalRoleCommunityAdmin GlobalRole = "community_admin"
)

var validGlobalRoles = []GlobalRole{
	GlobalRoleGeneralAdmin,
	GlobalRoleCommunityAdmin,
}

// String implements fmt.Stringer.
func (g GlobalRole) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GlobalRole.
func (g GlobalRole) IsValid() bool {
	for _, candidate := range validGlobalRoles {
		if candidate == g {
			return true
		}
	}
	return false
}

// GlobalRoleForAdminType maps an admin type to the role an approval grants.
// The mapping is exhaustive; an unrecognized type is an error, never a
// fallback role.
func GlobalRoleForAdminType(adminType AdminType) (GlobalRole, error) {
	switch adminType {
	case AdminTypeGeneral:
		return GlobalRoleGeneralAdmin, nil
	case AdminTypeCommunity:
		return GlobalRoleCommunityAdmin, nil
	default:
		return "", fmt.Errorf("no global role for admin type %q", adminType)
	}
}

// ParseGlobalRole converts raw input into a GlobalRole.
func ParseGlobalRole(value string) (GlobalRole, error) {
	for _, candidate := range validGlobalRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid global role %q", value)
}
