package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/memberhub/backend/pkg/enums"
)

// AdminRequest is the system of record for a user's claim to elevated
// access. It is created by the submission flow and mutated exactly once
// by review; granted access lives in the role ledger tables.
type AdminRequest struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	RequesterName string              `gorm:"column:requester_name;not null"`
	Email         string              `gorm:"column:email;not null"`
	Justification string              `gorm:"column:justification;type:text;not null"`
	AdminType     enums.AdminType     `gorm:"column:admin_type;type:admin_type;not null"`
	AdminCode     *string             `gorm:"column:admin_code"`
	CommunityID   *uuid.UUID          `gorm:"column:community_id;type:uuid"`
	Status        enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	ReviewedAt    *time.Time          `gorm:"column:reviewed_at"`
	ReviewedBy    *uuid.UUID          `gorm:"column:reviewed_by;type:uuid"`
}
