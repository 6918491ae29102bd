package enums

import "fmt"

// RequestStatus tracks the lifecycle of an admin access request.
// A request starts pending and moves exactly once to approved or rejected.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusApproved,
	RequestStatusRejected,
}

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RequestStatus.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status can no longer change.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
