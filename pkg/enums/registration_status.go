package enums

import "fmt"

// RegistrationStatus tracks a member's standing in the registration
// subsystem. The review workflow only ever promotes it to approved.
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

var validRegistrationStatuses = []RegistrationStatus{
	RegistrationStatusPending,
	RegistrationStatusApproved,
	RegistrationStatusRejected,
}

// String implements fmt.Stringer.
func (s RegistrationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RegistrationStatus.
func (s RegistrationStatus) IsValid() bool {
	for _, candidate := range validRegistrationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRegistrationStatus converts raw input into a RegistrationStatus.
func ParseRegistrationStatus(value string) (RegistrationStatus, error) {
	for _, candidate := range validRegistrationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid registration status %q", value)
}
