package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/memberhub/backend/internal/requests"
	"github.com/memberhub/backend/internal/roles"
	"github.com/memberhub/backend/pkg/config"
	"github.com/memberhub/backend/pkg/db/models"
	"github.com/memberhub/backend/pkg/enums"
	pkgerrors "github.com/memberhub/backend/pkg/errors"
	"github.com/memberhub/backend/pkg/logger"
	"github.com/memberhub/backend/pkg/metrics"
	"github.com/memberhub/backend/pkg/permissions"
	"github.com/memberhub/backend/pkg/types"
)

const (
	stepMemberRegistration = "member_registration"
	stepPermissionPolicy   = "permission_policy"
	stepCommunityRole      = "community_role"
	stepCommunityPerms     = "community_permissions"
)

// RequestStore is the slice of the admin request repository the
// coordinator needs.
type RequestStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.AdminRequest, error)
	Transition(ctx context.Context, id uuid.UUID, status enums.RequestStatus, reviewerID uuid.UUID, now time.Time) (requests.TransitionResult, error)
}

// RoleLedger is the slice of the role repository the coordinator needs.
type RoleLedger interface {
	UpsertGlobalRole(ctx context.Context, userID uuid.UUID, role enums.GlobalRole) error
	GrantCommunityRole(ctx context.Context, userID, communityID uuid.UUID, role enums.CommunityRole, assignedBy uuid.UUID) (bool, error)
	UpsertCommunityPermissions(ctx context.Context, communityID, adminUserID uuid.UUID, bundle types.PermissionBundle) error
	ApproveMemberRegistration(ctx context.Context, userID uuid.UUID) (roles.MemberUpdateResult, error)
}

// EventSink receives the fire-and-forget reviewed notification. Failures
// must never affect the review outcome, so implementations log and
// swallow their own errors.
type EventSink interface {
	ReviewRecorded(ctx context.Context, request *models.AdminRequest, outcome *Outcome)
}

// Service reviews pending admin requests and provisions access on
// approval.
type Service interface {
	Review(ctx context.Context, input ReviewInput) (*Outcome, error)
}

type service struct {
	store       RequestStore
	ledger      RoleLedger
	events      EventSink
	logg        *logger.Logger
	metrics     *metrics.ReviewMetrics
	stepTimeout time.Duration
	now         func() time.Time
}

// NewService wires the review coordinator. The event sink and metrics
// are optional.
func NewService(store RequestStore, ledger RoleLedger, events EventSink, logg *logger.Logger, reviewMetrics *metrics.ReviewMetrics, cfg config.ReviewConfig) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "request store required")
	}
	if ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "role ledger required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		store:       store,
		ledger:      ledger,
		events:      events,
		logg:        logg,
		metrics:     reviewMetrics,
		stepTimeout: cfg.StepTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Review runs the state machine for one review action. The status
// transition is a compare-and-swap, so concurrent reviews of the same
// request resolve to exactly one winner; the loser gets STATE_CONFLICT.
//
// On approval the global role is the minimum viable grant: its failure is
// fatal and surfaced to the caller. The member registration touch and the
// community-scoped writes are best-effort; their failures are collected
// in the outcome for operator remediation and never flip the result.
func (s *service) Review(ctx context.Context, input ReviewInput) (*Outcome, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.ReviewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewer id required")
	}
	targetStatus, err := input.Decision.TargetStatus()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid review decision")
	}

	ctx = s.logg.WithRequestID(ctx, input.RequestID.String())
	ctx = s.logg.WithReviewerID(ctx, input.ReviewerID.String())
	started := s.now()

	request, err := s.loadRequest(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	request, err = s.transition(ctx, request, targetStatus, input.ReviewerID)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		RequestID: input.RequestID,
		Decision:  input.Decision,
		Errors:    []StepError{},
	}

	if input.Decision == enums.ReviewDecisionReject {
		s.logg.Info(ctx, "admin request rejected")
		s.finish(ctx, request, outcome, started, nil)
		return outcome, nil
	}

	if request.UserID == nil {
		err := pkgerrors.New(pkgerrors.CodeIncompleteRequest, "approved request has no user to grant access to").
			WithDetails(map[string]any{"request_id": request.ID.String()})
		s.logg.Error(ctx, "approval cannot be provisioned", err)
		s.finish(ctx, request, outcome, started, err)
		return nil, err
	}
	userID := *request.UserID
	ctx = s.logg.WithUserID(ctx, userID.String())

	s.approveMemberRegistration(ctx, userID, outcome)

	if err := s.grantGlobalRole(ctx, request, userID, outcome); err != nil {
		s.finish(ctx, request, outcome, started, err)
		return outcome, err
	}

	if request.AdminType == enums.AdminTypeCommunity && request.CommunityID != nil {
		s.provisionCommunity(ctx, request, userID, input.ReviewerID, outcome)
	}

	s.logg.Info(ctx, "admin request approved")
	s.finish(ctx, request, outcome, started, nil)
	return outcome, nil
}

func (s *service) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.stepTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.stepTimeout)
}

func (s *service) loadRequest(ctx context.Context, id uuid.UUID) (*models.AdminRequest, error) {
	stepCtx, cancel := s.stepContext(ctx)
	defer cancel()

	request, err := s.store.Get(stepCtx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin request")
	}
	return request, nil
}

func (s *service) transition(ctx context.Context, request *models.AdminRequest, status enums.RequestStatus, reviewerID uuid.UUID) (*models.AdminRequest, error) {
	stepCtx, cancel := s.stepContext(ctx)
	defer cancel()

	result, err := s.store.Transition(stepCtx, request.ID, status, reviewerID, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition admin request")
	}
	if !result.Found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin request not found")
	}
	if !result.Updated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "admin request already reviewed")
	}
	if result.Request != nil {
		return result.Request, nil
	}
	return request, nil
}

func (s *service) approveMemberRegistration(ctx context.Context, userID uuid.UUID, outcome *Outcome) {
	stepCtx, cancel := s.stepContext(ctx)
	defer cancel()

	result, err := s.ledger.ApproveMemberRegistration(stepCtx, userID)
	if err != nil {
		s.recordStepFailure(ctx, outcome, stepMemberRegistration, err)
		return
	}
	if !result.Found {
		s.logg.Info(ctx, "no member record for approved user")
		return
	}
	outcome.MemberStatusUpdated = result.Updated
}

func (s *service) grantGlobalRole(ctx context.Context, request *models.AdminRequest, userID uuid.UUID, outcome *Outcome) error {
	role, err := enums.GlobalRoleForAdminType(request.AdminType)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "resolve global role")
	}

	stepCtx, cancel := s.stepContext(ctx)
	defer cancel()

	if err := s.ledger.UpsertGlobalRole(stepCtx, userID, role); err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert global role")
		s.logg.Error(ctx, "global role grant failed after transition", wrapped)
		return wrapped
	}
	outcome.GlobalRoleGranted = true
	return nil
}

func (s *service) provisionCommunity(ctx context.Context, request *models.AdminRequest, userID, reviewerID uuid.UUID, outcome *Outcome) {
	communityID := *request.CommunityID
	ctx = s.logg.WithCommunityID(ctx, communityID.String())

	bundle, err := permissions.DefaultBundle(request.AdminType)
	if err != nil {
		s.recordStepFailure(ctx, outcome, stepPermissionPolicy, err)
		return
	}

	func() {
		stepCtx, cancel := s.stepContext(ctx)
		defer cancel()
		if _, err := s.ledger.GrantCommunityRole(stepCtx, userID, communityID, enums.CommunityRoleAdmin, reviewerID); err != nil {
			s.recordStepFailure(ctx, outcome, stepCommunityRole, err)
			return
		}
		outcome.CommunityRoleGranted = true
	}()

	stepCtx, cancel := s.stepContext(ctx)
	defer cancel()
	if err := s.ledger.UpsertCommunityPermissions(stepCtx, communityID, userID, bundle); err != nil {
		s.recordStepFailure(ctx, outcome, stepCommunityPerms, err)
		return
	}
	outcome.PermissionsGranted = true
}

func (s *service) recordStepFailure(ctx context.Context, outcome *Outcome, step string, err error) {
	outcome.Errors = append(outcome.Errors, StepError{Step: step, Message: err.Error()})
	s.metrics.IncStepFailure(step)
	s.logg.Error(s.logg.WithField(ctx, "step", step), "best-effort provisioning step failed", err)
}

func (s *service) finish(ctx context.Context, request *models.AdminRequest, outcome *Outcome, started time.Time, fatal error) {
	decision := outcome.Decision.String()
	s.metrics.ObserveDuration(decision, s.now().Sub(started))
	switch {
	case fatal != nil:
		s.metrics.IncReview(decision, "failed")
	case outcome.Partial():
		s.metrics.IncReview(decision, "partial")
		if agg := outcome.NonFatal(); agg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "step_errors", agg.Error()), "review finished with incomplete grants")
		}
	default:
		s.metrics.IncReview(decision, "success")
	}

	if s.events != nil && fatal == nil {
		s.events.ReviewRecorded(ctx, request, outcome)
	}
}

// NonFatal aggregates the outcome's step errors into a single error for
// logs and diagnostics.
func (o *Outcome) NonFatal() error {
	var combined error
	for _, stepErr := range o.Errors {
		combined = multierr.Append(combined, errors.New(stepErr.Step+": "+stepErr.Message))
	}
	return combined
}
