package enums

import "fmt"

// CommunityRole is a role scoped to a single community.
type CommunityRole string

const (
	CommunityRoleAdmin CommunityRole = "admin"
)

var validCommunityRoles = []CommunityRole{
	CommunityRoleAdmin,
}

// String implements fmt.Stringer.
func (c CommunityRole) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CommunityRole.
func (c CommunityRole) IsValid() bool {
	for _, candidate := range validCommunityRoles {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCommunityRole converts raw input into a CommunityRole.
func ParseCommunityRole(value string) (CommunityRole, error) {
	for _, candidate := range validCommunityRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid community role %q", value)
}
