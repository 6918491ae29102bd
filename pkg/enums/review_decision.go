package enums

import "fmt"

// ReviewDecision is the verdict a reviewer records on a pending request.
type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionReject  ReviewDecision = "reject"
)

var validReviewDecisions = []ReviewDecision{
	ReviewDecisionApprove,
	ReviewDecisionReject,
}

// String implements fmt.Stringer.
func (d ReviewDecision) String() string {
	return string(d)
}

// IsValid reports whether the value is a known ReviewDecision.
func (d ReviewDecision) IsValid() bool {
	for _, candidate := range validReviewDecisions {
		if candidate == d {
			return true
		}
	}
	return false
}

// TargetStatus returns the terminal request status the decision produces.
func (d ReviewDecision) TargetStatus() (RequestStatus, error) {
	switch d {
	case ReviewDecisionApprove:
		return RequestStatusApproved, nil
	case ReviewDecisionReject:
		return RequestStatusRejected, nil
	default:
		return "", fmt.Errorf("invalid review decision %q", d)
	}
}

// ParseReviewDecision converts raw input into a ReviewDecision.
func ParseReviewDecision(value string) (ReviewDecision, error) {
	for _, candidate := range validReviewDecisions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review decision %q", value)
}
