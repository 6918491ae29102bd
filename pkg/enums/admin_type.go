package enums

import "fmt"

// AdminType classifies what kind of elevated access a request asks for.
type AdminType string

const (
	AdminTypeGeneral   AdminType = "general"
	AdminTypeCommunity AdminType = "community"
)

var validAdminTypes = []AdminType{
	AdminTypeGeneral,
	AdminTypeCommunity,
}

// String implements fmt.Stringer.
func (a AdminType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdminType.
func (a AdminType) IsValid() bool {
	for _, candidate := range validAdminTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdminType converts raw input into an AdminType.
func ParseAdminType(value string) (AdminType, error) {
	for _, candidate := range validAdminTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin type %q", value)
}
