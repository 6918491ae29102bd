package requests

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/memberhub/backend/pkg/db/models"
	"github.com/memberhub/backend/pkg/enums"
	pkgerrors "github.com/memberhub/backend/pkg/errors"
	"github.com/memberhub/backend/pkg/pagination"
)

// Service defines admin request submission and read operations. Status
// transitions belong to the review workflow, which talks to the
// repository directly.
type Service interface {
	Submit(ctx context.Context, input SubmitAdminRequestInput) (*AdminRequestDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*AdminRequestDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// EventSink receives the fire-and-forget submitted notification.
// Implementations log and swallow their own errors.
type EventSink interface {
	RequestSubmitted(ctx context.Context, request *models.AdminRequest)
}

type service struct {
	repo   Repository
	events EventSink
}

// ListParams configures filtering and pagination for admin requests.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult wraps returned requests and the cursor for the next page.
type ListResult struct {
	Items  []AdminRequestDTO `json:"items"`
	Cursor string            `json:"cursor"`
}

// NewService wires admin request dependencies. The event sink is
// optional.
func NewService(repo Repository, events EventSink) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin request repository required")
	}
	return &service{repo: repo, events: events}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitAdminRequestInput) (*AdminRequestDTO, error) {
	adminType, err := enums.ParseAdminType(strings.TrimSpace(input.AdminType))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid admin type")
	}
	if adminType == enums.AdminTypeCommunity && input.CommunityID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "community id required for community admin requests")
	}
	if adminType == enums.AdminTypeGeneral && input.CommunityID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "community id not allowed for general admin requests")
	}
	if adminType == enums.AdminTypeCommunity {
		exists, err := s.repo.CommunityExists(ctx, *input.CommunityID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check community")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "community does not exist or is inactive")
		}
	}

	request := &models.AdminRequest{
		UserID:        input.UserID,
		RequesterName: strings.TrimSpace(input.RequesterName),
		Email:         strings.TrimSpace(input.Email),
		Justification: strings.TrimSpace(input.Justification),
		AdminType:     adminType,
		AdminCode:     input.AdminCode,
		CommunityID:   input.CommunityID,
		Status:        enums.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin request")
	}
	if s.events != nil {
		s.events.RequestSubmitted(ctx, request)
	}
	return ToDTO(request), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AdminRequestDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	request, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin request")
	}
	return ToDTO(request), nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	// The repository applies the look-ahead buffer; the limit passes
	// through raw.
	query := listRequestsParams{
		Limit: params.Limit,
	}
	if trimmed := strings.TrimSpace(params.Status); trimmed != "" {
		status, err := enums.ParseRequestStatus(trimmed)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.Status = &status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list admin requests")
	}

	items := make([]AdminRequestDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *ToDTO(&rows[i]))
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  items,
		Cursor: cursor,
	}, nil
}
