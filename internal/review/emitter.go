package review

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/memberhub/backend/pkg/db/models"
	"github.com/memberhub/backend/pkg/enums"
	"github.com/memberhub/backend/pkg/logger"
	"github.com/memberhub/backend/pkg/outbox"
	"github.com/memberhub/backend/pkg/outbox/payloads"
)

// OutboxSink queues reviewed events through the transactional outbox.
// Emission happens after the review completes; any failure here is
// logged and dropped so notification delivery can never change a review
// outcome.
type OutboxSink struct {
	svc  *outbox.Service
	tx   func(ctx context.Context, fn func(tx *gorm.DB) error) error
	logg *logger.Logger
}

// NewOutboxSink wires the sink. txRunner is typically db.Client.WithTx.
func NewOutboxSink(svc *outbox.Service, txRunner func(ctx context.Context, fn func(tx *gorm.DB) error) error, logg *logger.Logger) *OutboxSink {
	return &OutboxSink{svc: svc, tx: txRunner, logg: logg}
}

func (s *OutboxSink) ReviewRecorded(ctx context.Context, request *models.AdminRequest, outcome *Outcome) {
	if s == nil || s.svc == nil || s.tx == nil || request == nil || outcome == nil {
		return
	}

	reviewedAt := time.Now().UTC()
	if request.ReviewedAt != nil {
		reviewedAt = *request.ReviewedAt
	}

	event := payloads.AdminRequestReviewedEvent{
		RequestID:            request.ID,
		UserID:               request.UserID,
		Decision:             outcome.Decision,
		Status:               request.Status,
		AdminType:            request.AdminType,
		CommunityID:          request.CommunityID,
		GlobalRoleGranted:    outcome.GlobalRoleGranted,
		CommunityRoleGranted: outcome.CommunityRoleGranted,
		ReviewedAt:           reviewedAt,
	}
	var actor *outbox.ActorRef
	if request.ReviewedBy != nil {
		event.ReviewerID = *request.ReviewedBy
		actor = &outbox.ActorRef{UserID: *request.ReviewedBy, Role: enums.PlatformRoleAdmin.String()}
	}

	err := s.tx(ctx, func(tx *gorm.DB) error {
		if err := s.svc.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdminRequestReviewed,
			AggregateType: enums.AggregateAdminRequest,
			AggregateID:   request.ID,
			Actor:         actor,
			Data:          event,
			Version:       1,
			OccurredAt:    reviewedAt,
		}); err != nil {
			return err
		}

		if !outcome.GlobalRoleGranted || request.UserID == nil || request.ReviewedBy == nil {
			return nil
		}
		role, err := enums.GlobalRoleForAdminType(request.AdminType)
		if err != nil {
			return err
		}
		granted := payloads.AdminAccessGrantedEvent{
			UserID:      *request.UserID,
			GlobalRole:  role,
			CommunityID: request.CommunityID,
			GrantedBy:   *request.ReviewedBy,
			GrantedAt:   reviewedAt,
		}
		return s.svc.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdminAccessGranted,
			AggregateType: enums.AggregateAdminRequest,
			AggregateID:   request.ID,
			Actor:         actor,
			Data:          granted,
			Version:       1,
			OccurredAt:    reviewedAt,
		})
	})
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "request_id", request.ID.String()), "queueing reviewed event failed")
	}
}
