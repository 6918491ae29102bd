package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/memberhub/backend/pkg/enums"
)

// GlobalRoleAssignment records a user's platform-wide role. At most one
// row exists per user; approval overwrites rather than accumulates.
type GlobalRoleAssignment struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_global_role_assignments_user"`
	Role      enums.GlobalRole `gorm:"column:role;type:global_role;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
