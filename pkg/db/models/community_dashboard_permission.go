package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/memberhub/backend/pkg/types"
)

// CommunityDashboardPermission holds the capability bundle a community
// admin exercises on that community's dashboard. One row per
// (community, admin) pair, overwritten on re-grant.
type CommunityDashboardPermission struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CommunityID uuid.UUID              `gorm:"column:community_id;type:uuid;not null;uniqueIndex:ux_community_dashboard_permissions_pair"`
	AdminUserID uuid.UUID              `gorm:"column:admin_user_id;type:uuid;not null;uniqueIndex:ux_community_dashboard_permissions_pair"`
	Permissions types.PermissionBundle `gorm:"column:permissions;type:jsonb;not null"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
