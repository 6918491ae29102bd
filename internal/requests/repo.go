package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/memberhub/backend/pkg/db/models"
	"github.com/memberhub/backend/pkg/enums"
	"github.com/memberhub/backend/pkg/pagination"
)

// Repository exposes persistence helpers for admin requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.AdminRequest) error
	CommunityExists(ctx context.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*models.AdminRequest, error)
	List(ctx context.Context, params listRequestsParams) ([]models.AdminRequest, *pagination.Cursor, error)
	Transition(ctx context.Context, id uuid.UUID, status enums.RequestStatus, reviewerID uuid.UUID, now time.Time) (TransitionResult, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an admin request repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listRequestsParams struct {
	Status *enums.RequestStatus
	Limit  int
	Cursor *pagination.Cursor
}

// TransitionResult reports what the conditional status update did.
// Updated=false with Found=true means the row was already terminal.
type TransitionResult struct {
	Updated bool
	Found   bool
	Request *models.AdminRequest
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, request *models.AdminRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// CommunityExists reports whether an active community row backs the
// given id. Submissions scoped to a missing or deactivated community
// are rejected before a request row is created.
func (r *repositoryImpl) CommunityExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Community{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.AdminRequest, error) {
	var request models.AdminRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listRequestsParams) ([]models.AdminRequest, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.AdminRequest{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.AdminRequest
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		rows = rows[:normalized]
		// Cursor points at the last returned row; the strict < filter
		// above then resumes with the row after it.
		last := rows[normalized-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}

// Transition is a compare-and-swap on the request status: only a pending
// row is moved to the terminal status. Zero rows affected is disambiguated
// with a follow-up lookup so callers can tell NotFound from an already
// terminal row.
func (r *repositoryImpl) Transition(ctx context.Context, id uuid.UUID, status enums.RequestStatus, reviewerID uuid.UUID, now time.Time) (TransitionResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AdminRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Updates(map[string]any{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return TransitionResult{}, result.Error
	}

	transition := TransitionResult{Updated: result.RowsAffected > 0}
	if result.RowsAffected > 0 {
		transition.Found = true
		updated, err := r.Get(ctx, id)
		if err != nil {
			return TransitionResult{}, err
		}
		transition.Request = updated
		return transition, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AdminRequest{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return TransitionResult{}, err
	}
	transition.Found = count > 0
	return transition, nil
}
