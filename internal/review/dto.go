package review

import (
	"github.com/google/uuid"

	"github.com/memberhub/backend/pkg/enums"
)

// ReviewInput carries one review action. The reviewer is always passed
// explicitly; the coordinator never reads identity from ambient state.
type ReviewInput struct {
	RequestID  uuid.UUID
	Decision   enums.ReviewDecision
	ReviewerID uuid.UUID
}

// StepError records a best-effort provisioning step that failed. These
// never flip the overall outcome; operators use them to repair partial
// grants.
type StepError struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// Outcome is the structured result of a review. Callers must be able to
// tell "nothing changed" from "approved but grant incomplete" from
// "fully granted"; a single boolean loses that.
type Outcome struct {
	RequestID            uuid.UUID            `json:"request_id"`
	Decision             enums.ReviewDecision `json:"decision"`
	GlobalRoleGranted    bool                 `json:"global_role_granted"`
	CommunityRoleGranted bool                 `json:"community_role_granted"`
	PermissionsGranted   bool                 `json:"permissions_granted"`
	MemberStatusUpdated  bool                 `json:"member_status_updated"`
	Errors               []StepError          `json:"errors"`
}

// Partial reports whether an approval finished with any best-effort step
// outstanding.
func (o *Outcome) Partial() bool {
	return o != nil && len(o.Errors) > 0
}
