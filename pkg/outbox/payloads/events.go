package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/memberhub/backend/pkg/enums"
)

// AdminRequestSubmittedEvent signals a new admin access request awaiting review.
type AdminRequestSubmittedEvent struct {
	RequestID   uuid.UUID       `json:"request_id"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
	AdminType   enums.AdminType `json:"admin_type"`
	CommunityID *uuid.UUID      `json:"community_id,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// AdminRequestReviewedEvent is emitted when a reviewer decides a request.
type AdminRequestReviewedEvent struct {
	RequestID            uuid.UUID            `json:"request_id"`
	UserID               *uuid.UUID           `json:"user_id,omitempty"`
	ReviewerID           uuid.UUID            `json:"reviewer_id"`
	Decision             enums.ReviewDecision `json:"decision"`
	Status               enums.RequestStatus  `json:"status"`
	AdminType            enums.AdminType      `json:"admin_type"`
	CommunityID          *uuid.UUID           `json:"community_id,omitempty"`
	GlobalRoleGranted    bool                 `json:"global_role_granted"`
	CommunityRoleGranted bool                 `json:"community_role_granted"`
	ReviewedAt           time.Time            `json:"reviewed_at"`
}

// AdminAccessGrantedEvent tells downstream systems a user gained admin access.
type AdminAccessGrantedEvent struct {
	UserID      uuid.UUID        `json:"user_id"`
	GlobalRole  enums.GlobalRole `json:"global_role"`
	CommunityID *uuid.UUID       `json:"community_id,omitempty"`
	GrantedBy   uuid.UUID        `json:"granted_by"`
	GrantedAt   time.Time        `json:"granted_at"`
}
