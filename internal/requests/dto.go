package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/memberhub/backend/pkg/db/models"
	"github.com/memberhub/backend/pkg/enums"
)

// SubmitAdminRequestInput is the payload for a new admin access request.
type SubmitAdminRequestInput struct {
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	RequesterName string     `json:"requester_name" validate:"required,max=200"`
	Email         string     `json:"email" validate:"required,email"`
	Justification string     `json:"justification" validate:"required,max=2000"`
	AdminType     string     `json:"admin_type" validate:"required"`
	AdminCode     *string    `json:"admin_code,omitempty"`
	CommunityID   *uuid.UUID `json:"community_id,omitempty"`
}

// AdminRequestDTO is the transport shape for an admin request record.
type AdminRequestDTO struct {
	ID            uuid.UUID           `json:"id"`
	UserID        *uuid.UUID          `json:"user_id,omitempty"`
	RequesterName string              `json:"requester_name"`
	Email         string              `json:"email"`
	Justification string              `json:"justification"`
	AdminType     enums.AdminType     `json:"admin_type"`
	CommunityID   *uuid.UUID          `json:"community_id,omitempty"`
	Status        enums.RequestStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	ReviewedAt    *time.Time          `json:"reviewed_at,omitempty"`
	ReviewedBy    *uuid.UUID          `json:"reviewed_by,omitempty"`
}

// ToDTO converts a model to the external DTO. The admin code never leaves
// the persistence layer.
func ToDTO(m *models.AdminRequest) *AdminRequestDTO {
	if m == nil {
		return nil
	}

	return &AdminRequestDTO{
		ID:            m.ID,
		UserID:        copyUUIDPointer(m.UserID),
		RequesterName: m.RequesterName,
		Email:         m.Email,
		Justification: m.Justification,
		AdminType:     m.AdminType,
		CommunityID:   copyUUIDPointer(m.CommunityID),
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		ReviewedAt:    copyTimePointer(m.ReviewedAt),
		ReviewedBy:    copyUUIDPointer(m.ReviewedBy),
	}
}

func copyUUIDPointer(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}

func copyTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
