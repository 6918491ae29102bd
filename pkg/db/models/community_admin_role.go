package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/memberhub/backend/pkg/enums"
)

// CommunityAdminRole scopes an admin grant to a single community. At
// most one active row may exist per (user, community) pair; revocation
// flips IsActive rather than deleting history.
type CommunityAdminRole struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:ix_community_admin_roles_user_community"`
	CommunityID uuid.UUID           `gorm:"column:community_id;type:uuid;not null;index:ix_community_admin_roles_user_community"`
	Role        enums.CommunityRole `gorm:"column:role;type:community_role;not null"`
	AssignedBy  uuid.UUID           `gorm:"column:assigned_by;type:uuid;not null"`
	IsActive    bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
