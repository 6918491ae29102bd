package roles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/memberhub/backend/pkg/db"
	"github.com/memberhub/backend/pkg/db/models"
	"github.com/memberhub/backend/pkg/enums"
	"github.com/memberhub/backend/pkg/types"
)

// Repository is the ledger of granted access: global roles, scoped
// community roles, dashboard permission bundles, and the single member
// registration touch the review workflow performs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertGlobalRole(ctx context.Context, userID uuid.UUID, role enums.GlobalRole) error
	GrantCommunityRole(ctx context.Context, userID, communityID uuid.UUID, role enums.CommunityRole, assignedBy uuid.UUID) (bool, error)
	UpsertCommunityPermissions(ctx context.Context, communityID, adminUserID uuid.UUID, bundle types.PermissionBundle) error
	ApproveMemberRegistration(ctx context.Context, userID uuid.UUID) (MemberUpdateResult, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a role ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// MemberUpdateResult reports what the registration update did. A missing
// member row is not an error at this layer.
type MemberUpdateResult struct {
	Updated bool
	Found   bool
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// UpsertGlobalRole keeps at most one row per user: update in place,
// insert on zero rows, and treat a unique violation as a concurrent
// writer winning the insert race.
func (r *repositoryImpl) UpsertGlobalRole(ctx context.Context, userID uuid.UUID, role enums.GlobalRole) error {
	result := r.db.WithContext(ctx).
		Model(&models.GlobalRoleAssignment{}).
		Where("user_id = ?", userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	assignment := models.GlobalRoleAssignment{
		ID:     uuid.New(),
		UserID: userID,
		Role:   role,
	}
	if err := r.db.WithContext(ctx).Create(&assignment).Error; err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_global_role_assignments_user") {
			return r.db.WithContext(ctx).
				Model(&models.GlobalRoleAssignment{}).
				Where("user_id = ?", userID).
				Update("role", role).Error
		}
		return err
	}
	return nil
}

// GrantCommunityRole inserts an active scoped grant unless one already
// exists for the (user, community) pair. Returns true when a new row was
// created.
func (r *repositoryImpl) GrantCommunityRole(ctx context.Context, userID, communityID uuid.UUID, role enums.CommunityRole, assignedBy uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommunityAdminRole{}).
		Where("user_id = ? AND community_id = ? AND is_active = ?", userID, communityID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	grant := models.CommunityAdminRole{
		ID:          uuid.New(),
		UserID:      userID,
		CommunityID: communityID,
		Role:        role,
		AssignedBy:  assignedBy,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(&grant).Error; err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_community_admin_roles_active") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpsertCommunityPermissions keeps one bundle per (community, admin)
// pair, overwritten on re-grant.
func (r *repositoryImpl) UpsertCommunityPermissions(ctx context.Context, communityID, adminUserID uuid.UUID, bundle types.PermissionBundle) error {
	result := r.db.WithContext(ctx).
		Model(&models.CommunityDashboardPermission{}).
		Where("community_id = ? AND admin_user_id = ?", communityID, adminUserID).
		Update("permissions", bundle)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	row := models.CommunityDashboardPermission{
		ID:          uuid.New(),
		CommunityID: communityID,
		AdminUserID: adminUserID,
		Permissions: bundle,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_community_dashboard_permissions_pair") {
			return r.db.WithContext(ctx).
				Model(&models.CommunityDashboardPermission{}).
				Where("community_id = ? AND admin_user_id = ?", communityID, adminUserID).
				Update("permissions", bundle).Error
		}
		return err
	}
	return nil
}

func (r *repositoryImpl) ApproveMemberRegistration(ctx context.Context, userID uuid.UUID) (MemberUpdateResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("user_id = ?", userID).
		Update("registration_status", enums.RegistrationStatusApproved)
	if result.Error != nil {
		return MemberUpdateResult{}, result.Error
	}

	update := MemberUpdateResult{Updated: result.RowsAffected > 0}
	if result.RowsAffected > 0 {
		update.Found = true
		return update, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return MemberUpdateResult{}, err
	}
	update.Found = count > 0
	return update, nil
}
