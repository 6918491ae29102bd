package requests

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

// OutboxSink queues submitted events through the transactional outbox.
// Failures are logged and dropped; a lost notification never fails a
// submission.
type OutboxSink struct {
	svc  *outbox.Service
	tx   func(ctx context.Context, fn func(tx *gorm.DB) error) error
	logg *logger.Logger
}

// NewOutboxSink wires the sink. txRunner is typically db.Client.WithTx.
func NewOutboxSink(svc *outbox.Service, txRunner func(ctx context.Context, fn func(tx *gorm.DB) error) error, logg *logger.Logger) *OutboxSink {
	return &OutboxSink{svc: svc, tx: txRunner, logg: logg}
}

func (s *OutboxSink) RequestSubmitted(ctx context.Context, request *models.AdminRequest) {
	if s == nil || s.svc == nil || s.tx == nil || request == nil {
		return
	}

	submittedAt := request.CreatedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	event := payloads.AdminRequestSubmittedEvent{
		RequestID:   request.ID,
		UserID:      request.UserID,
		AdminType:   request.AdminType,
		CommunityID: request.CommunityID,
		SubmittedAt: submittedAt,
	}
	var actor *outbox.ActorRef
	if request.UserID != nil {
		actor = &outbox.ActorRef{UserID: *request.UserID, Role: enums.PlatformRoleMember.String()}
	}

	err := s.tx(ctx, func(tx *gorm.DB) error {
		return s.svc.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdminRequestSubmitted,
			AggregateType: enums.AggregateAdminRequest,
			AggregateID:   request.ID,
			Actor:         actor,
			Data:          event,
			Version:       1,
			OccurredAt:    submittedAt,
		})
	})
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "request_id", request.ID.String()), "queueing submitted event failed")
	}
}
