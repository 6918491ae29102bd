package review

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/memberhub/backend/internal/requests"
	"github.com/memberhub/backend/internal/roles"
	"github.com/memberhub/backend/pkg/config"
	"github.com/memberhub/backend/pkg/db/models"
	"github.com/memberhub/backend/pkg/enums"
	pkgerrors "github.com/memberhub/backend/pkg/errors"
	"github.com/memberhub/backend/pkg/logger"
	"github.com/memberhub/backend/pkg/permissions"
	"github.com/memberhub/backend/pkg/types"
)

type fakeStore struct {
	request      *models.AdminRequest
	transitionFn func(ctx context.Context, id uuid.UUID, status enums.RequestStatus, reviewerID uuid.UUID, now time.Time) (requests.TransitionResult, error)
	transitioned int
}

func (f *fakeStore) Get(ctx context.Context, id uuid.UUID) (*models.AdminRequest, error) {
	if f.request == nil || f.request.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.request
	return &copied, nil
}

func (f *fakeStore) Transition(ctx context.Context, id uuid.UUID, status enums.RequestStatus, reviewerID uuid.UUID, now time.Time) (requests.TransitionResult, error) {
	f.transitioned++
	if f.transitionFn != nil {
		return f.transitionFn(ctx, id, status, reviewerID, now)
	}
	if f.request == nil || f.request.ID != id {
		return requests.TransitionResult{}, nil
	}
	if f.request.Status.IsTerminal() {
		return requests.TransitionResult{Found: true}, nil
	}
	f.request.Status = status
	f.request.ReviewedBy = &reviewerID
	f.request.ReviewedAt = &now
	copied := *f.request
	return requests.TransitionResult{Updated: true, Found: true, Request: &copied}, nil
}

type grantedCommunityRole struct {
	userID      uuid.UUID
	communityID uuid.UUID
	role        enums.CommunityRole
	assignedBy  uuid.UUID
}

type grantedPermissions struct {
	communityID uuid.UUID
	adminUserID uuid.UUID
	bundle      types.PermissionBundle
}

type fakeLedger struct {
	globalRoles     map[uuid.UUID]enums.GlobalRole
	communityRoles  []grantedCommunityRole
	permissionRows  []grantedPermissions
	members         map[uuid.UUID]bool
	globalRoleErr   error
	communityErr    error
	permissionsErr  error
	registrationErr error
	calls           int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		globalRoles: map[uuid.UUID]enums.GlobalRole{},
		members:     map[uuid.UUID]bool{},
	}
}

func (f *fakeLedger) UpsertGlobalRole(ctx context.Context, userID uuid.UUID, role enums.GlobalRole) error {
	f.calls++
	if f.globalRoleErr != nil {
		return f.globalRoleErr
	}
	f.globalRoles[userID] = role
	return nil
}

func (f *fakeLedger) GrantCommunityRole(ctx context.Context, userID, communityID uuid.UUID, role enums.CommunityRole, assignedBy uuid.UUID) (bool, error) {
	f.calls++
	if f.communityErr != nil {
		return false, f.communityErr
	}
	f.communityRoles = append(f.communityRoles, grantedCommunityRole{
		userID:      userID,
		communityID: communityID,
		role:        role,
		assignedBy:  assignedBy,
	})
	return true, nil
}

func (f *fakeLedger) UpsertCommunityPermissions(ctx context.Context, communityID, adminUserID uuid.UUID, bundle types.PermissionBundle) error {
	f.calls++
	if f.permissionsErr != nil {
		return f.permissionsErr
	}
	f.permissionRows = append(f.permissionRows, grantedPermissions{
		communityID: communityID,
		adminUserID: adminUserID,
		bundle:      bundle,
	})
	return nil
}

func (f *fakeLedger) ApproveMemberRegistration(ctx context.Context, userID uuid.UUID) (roles.MemberUpdateResult, error) {
	f.calls++
	if f.registrationErr != nil {
		return roles.MemberUpdateResult{}, f.registrationErr
	}
	if !f.members[userID] {
		return roles.MemberUpdateResult{}, nil
	}
	return roles.MemberUpdateResult{Updated: true, Found: true}, nil
}

type fakeSink struct {
	recorded int
	last     *Outcome
}

func (f *fakeSink) ReviewRecorded(ctx context.Context, request *models.AdminRequest, outcome *Outcome) {
	f.recorded++
	f.last = outcome
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "review-test", Level: zerolog.ErrorLevel})
}

func newTestService(t *testing.T, store RequestStore, ledger RoleLedger, sink EventSink) Service {
	t.Helper()
	svc, err := NewService(store, ledger, sink, testLogger(), nil, config.ReviewConfig{StepTimeout: time.Second})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func pendingCommunityRequest() (*models.AdminRequest, uuid.UUID, uuid.UUID) {
	userID := uuid.New()
	communityID := uuid.New()
	request := &models.AdminRequest{
		ID:            uuid.New(),
		UserID:        &userID,
		RequesterName: "Jordan Reyes",
		Email:         "jordan@example.com",
		Justification: "runs the robotics community",
		AdminType:     enums.AdminTypeCommunity,
		CommunityID:   &communityID,
		Status:        enums.RequestStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	return request, userID, communityID
}

func TestReviewApproveCommunityRequestProvisionsEverything(t *testing.T) {
	request, userID, communityID := pendingCommunityRequest()
	reviewer := uuid.New()

	store := &fakeStore{request: request}
	ledger := newFakeLedger()
	ledger.members[userID] = true
	sink := &fakeSink{}
	svc := newTestService(t, store, ledger, sink)

	outcome, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  request.ID,
		Decision:   enums.ReviewDecisionApprove,
		ReviewerID: reviewer,
	})
	if err != nil {
		t.Fatalf("unexpected review error: %v", err)
	}

	if request.Status != enums.RequestStatusApproved {
		t.Fatalf("expected approved status, got %s", request.Status)
	}
	if request.ReviewedBy == nil || *request.ReviewedBy != reviewer {
		t.Fatal("reviewer not recorded on request")
	}
	if !outcome.GlobalRoleGranted || !outcome.CommunityRoleGranted || !outcome.PermissionsGranted {
		t.Fatalf("expected full grant, got %+v", outcome)
	}
	if !outcome.MemberStatusUpdated {
		t.Fatal("expected member registration approval")
	}
	if len(outcome.Errors) != 0 {
		t.Fatalf("expected no step errors, got %v", outcome.Errors)
	}

	if role := ledger.globalRoles[userID]; role != enums.GlobalRoleCommunityAdmin {
		t.Fatalf("expected community_admin global role, got %s", role)
	}
	if len(ledger.communityRoles) != 1 {
		t.Fatalf("expected 1 community role, got %d", len(ledger.communityRoles))
	}
	grant := ledger.communityRoles[0]
	if grant.userID != userID || grant.communityID != communityID || grant.role != enums.CommunityRoleAdmin || grant.assignedBy != reviewer {
		t.Fatalf("unexpected community grant %+v", grant)
	}
	if len(ledger.permissionRows) != 1 {
		t.Fatalf("expected 1 permission row, got %d", len(ledger.permissionRows))
	}
	expected, err := permissions.DefaultBundle(enums.AdminTypeCommunity)
	if err != nil {
		t.Fatalf("default bundle: %v", err)
	}
	if ledger.permissionRows[0].bundle != expected {
		t.Fatalf("expected default bundle %+v, got %+v", expected, ledger.permissionRows[0].bundle)
	}
	if sink.recorded != 1 {
		t.Fatalf("expected 1 reviewed event, got %d", sink.recorded)
	}
}

func TestReviewApproveGeneralRequestGrantsGlobalRoleOnly(t *testing.T) {
	userID := uuid.New()
	request := &models.AdminRequest{
		ID:        uuid.New(),
		UserID:    &userID,
		AdminType: enums.AdminTypeGeneral,
		Status:    enums.RequestStatusPending,
	}
	store := &fakeStore{request: request}
	ledger := newFakeLedger()
	svc := newTestService(t, store, ledger, nil)

	outcome, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  request.ID,
		Decision:   enums.ReviewDecisionApprove,
		ReviewerID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected review error: %v", err)
	}

	if role := ledger.globalRoles[userID]; role != enums.GlobalRoleGeneralAdmin {
		t.Fatalf("expected general_admin role, got %s", role)
	}
	if len(ledger.communityRoles) != 0 || len(ledger.permissionRows) != 0 {
		t.Fatal("general approval must not touch community tables")
	}
	if outcome.CommunityRoleGranted || outcome.PermissionsGranted {
		t.Fatalf("unexpected community flags in %+v", outcome)
	}
	if outcome.MemberStatusUpdated {
		t.Fatal("no member row exists, status must not be reported updated")
	}
}

func TestReviewRejectTouchesNoLedgerRecords(t *testing.T) {
	request, _, _ := pendingCommunityRequest()
	store := &fakeStore{request: request}
	ledger := newFakeLedger()
	sink := &fakeSink{}
	svc := newTestService(t, store, ledger, sink)

	outcome, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  request.ID,
		Decision:   enums.ReviewDecisionReject,
		ReviewerID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected review error: %v", err)
	}

	if request.Status != enums.RequestStatusRejected {
		t.Fatalf("expected rejected status, got %s", request.Status)
	}
	if ledger.calls != 0 {
		t.Fatalf("rejection must not call the role ledger, saw %d calls", ledger.calls)
	}
	if outcome.GlobalRoleGranted || outcome.CommunityRoleGranted || outcome.PermissionsGranted || outcome.MemberStatusUpdated {
		t.Fatalf("rejection must not report grants: %+v", outcome)
	}
	if sink.recorded != 1 {
		t.Fatal("rejection still emits the reviewed event")
	}
}

func TestReviewMissingRequestIsNotFound(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, newFakeLedger(), nil)

	_, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  uuid.New(),
		Decision:   enums.ReviewDecisionApprove,
		ReviewerID: uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReviewTerminalRequestIsStateConflict(t *testing.T) {
	request, _, _ := pendingCommunityRequest()
	request.Status = enums.RequestStatusApproved
	store := &fakeStore{request: request}
	ledger := newFakeLedger()
	svc := newTestService(t, store, ledger, nil)

	_, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  request.ID,
		Decision:   enums.ReviewDecisionApprove,
		ReviewerID: uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if ledger.calls != 0 {
		t.Fatal("no provisioning may run after a losing CAS")
	}
}

func TestReviewApproveWithoutUserIDIsIncomplete(t *testing.T) {
	request := &models.AdminRequest{
		ID:        uuid.New(),
		AdminType: enums.AdminTypeGeneral,
		Status:    enums.RequestStatusPending,
	}
	store := &fakeStore{request: request}
	ledger := newFakeLedger()
	sink := &fakeSink{}
	svc := newTestService(t, store, ledger, sink)

	_, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  request.ID,
		Decision:   enums.ReviewDecisionApprove,
		ReviewerID: uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeIncompleteRequest) {
		t.Fatalf("expected incomplete request data, got %v", err)
	}

	// The transition committed before the gap was detected: approved
	// status with no grant is the documented remediation state.
	if request.Status != enums.RequestStatusApproved {
		t.Fatalf("expected approved status, got %s", request.Status)
	}
	if ledger.calls != 0 {
		t.Fatal("no ledger writes may happen without a user id")
	}
	if sink.recorded != 0 {
		t.Fatal("fatal outcomes must not emit events")
	}
}

func TestReviewGlobalRoleFailureIsFatalButObservable(t *testing.T) {
	request, userID, _ := pendingCommunityRequest()
	store := &fakeStore{request: request}
	ledger := newFakeLedger()
	ledger.members[userID] = true
	ledger.globalRoleErr = errors.New("connection reset")
	sink := &fakeSink{}
	svc := newTestService(t, store, ledger, sink)

	outcome, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  request.ID,
		Decision:   enums.ReviewDecisionApprove,
		ReviewerID: uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency failure, got %v", err)
	}
	if outcome == nil {
		t.Fatal("partial outcome must be returned alongside the fatal error")
	}
	if outcome.GlobalRoleGranted {
		t.Fatal("global role must not be reported granted")
	}
	// Status and grant state diverge here: approved request, no role.
	if request.Status != enums.RequestStatusApproved {
		t.Fatalf("expected approved status, got %s", request.Status)
	}
	if len(ledger.communityRoles) != 0 {
		t.Fatal("community provisioning must not run after a fatal global role failure")
	}
	if sink.recorded != 0 {
		t.Fatal("fatal outcomes must not emit events")
	}
}

func TestReviewCommunityRoleFailureStaysBestEffort(t *testing.T) {
	request, userID, communityID := pendingCommunityRequest()
	store := &fakeStore{request: request}
	ledger := newFakeLedger()
	ledger.members[userID] = true
	ledger.communityErr = errors.New("insert failed")
	svc := newTestService(t, store, ledger, nil)

	outcome, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  request.ID,
		Decision:   enums.ReviewDecisionApprove,
		ReviewerID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("best-effort failure must not fail the review: %v", err)
	}
	if !outcome.GlobalRoleGranted {
		t.Fatal("global role grant should have succeeded")
	}
	if outcome.CommunityRoleGranted {
		t.Fatal("community role must be reported not granted")
	}
	if !outcome.PermissionsGranted {
		t.Fatal("permissions upsert still runs after a community role failure")
	}
	if len(outcome.Errors) != 1 || outcome.Errors[0].Step != "community_role" {
		t.Fatalf("expected one community_role step error, got %v", outcome.Errors)
	}
	if len(ledger.permissionRows) != 1 || ledger.permissionRows[0].communityID != communityID {
		t.Fatal("permissions row missing")
	}
}

func TestReviewPartialOutcomeLogsStepErrorAggregate(t *testing.T) {
	request, userID, _ := pendingCommunityRequest()
	store := &fakeStore{request: request}
	ledger := newFakeLedger()
	ledger.members[userID] = true
	ledger.communityErr = errors.New("insert failed")
	ledger.registrationErr = errors.New("lock timeout")

	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "review-test", Level: zerolog.WarnLevel, Output: &buf})
	svc, err := NewService(store, ledger, nil, logg, nil, config.ReviewConfig{StepTimeout: time.Second})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	outcome, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  request.ID,
		Decision:   enums.ReviewDecisionApprove,
		ReviewerID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("best-effort failures must not fail the review: %v", err)
	}
	if !outcome.Partial() {
		t.Fatalf("expected a partial outcome, got %+v", outcome)
	}

	logged := buf.String()
	if !strings.Contains(logged, "review finished with incomplete grants") {
		t.Fatalf("partial outcome not logged: %s", logged)
	}
	for _, step := range []string{"community_role", "member_registration"} {
		if !strings.Contains(logged, step) {
			t.Fatalf("aggregated step errors missing %s: %s", step, logged)
		}
	}
}

func TestOutcomeNonFatalCombinesStepErrors(t *testing.T) {
	outcome := &Outcome{Errors: []StepError{
		{Step: "community_role", Message: "insert failed"},
		{Step: "member_registration", Message: "lock timeout"},
	}}

	agg := outcome.NonFatal()
	if agg == nil {
		t.Fatal("expected a combined error")
	}
	for _, fragment := range []string{"community_role: insert failed", "member_registration: lock timeout"} {
		if !strings.Contains(agg.Error(), fragment) {
			t.Fatalf("aggregate missing %q: %v", fragment, agg)
		}
	}

	if (&Outcome{}).NonFatal() != nil {
		t.Fatal("clean outcome must aggregate to nil")
	}
}

func TestReviewMemberRegistrationFailureStaysBestEffort(t *testing.T) {
	request, _, _ := pendingCommunityRequest()
	store := &fakeStore{request: request}
	ledger := newFakeLedger()
	ledger.registrationErr = errors.New("lock timeout")
	svc := newTestService(t, store, ledger, nil)

	outcome, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  request.ID,
		Decision:   enums.ReviewDecisionApprove,
		ReviewerID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("best-effort failure must not fail the review: %v", err)
	}
	if outcome.MemberStatusUpdated {
		t.Fatal("member status must not be reported updated")
	}
	if !outcome.GlobalRoleGranted {
		t.Fatal("global role grant still runs after a member registration failure")
	}
	if len(outcome.Errors) != 1 || outcome.Errors[0].Step != "member_registration" {
		t.Fatalf("expected one member_registration step error, got %v", outcome.Errors)
	}
}

func TestReviewInvalidDecision(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, newFakeLedger(), nil)

	_, err := svc.Review(context.Background(), ReviewInput{
		RequestID:  uuid.New(),
		Decision:   enums.ReviewDecision("escalate"),
		ReviewerID: uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReviewRequiresReviewer(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, newFakeLedger(), nil)

	_, err := svc.Review(context.Background(), ReviewInput{
		RequestID: uuid.New(),
		Decision:  enums.ReviewDecisionApprove,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
