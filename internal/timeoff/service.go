// Package timeoff creates provider absences and cancels the confirmed
// bookings they displace. The block itself always survives: the cascade is
// best-effort and each cancellation runs in its own transaction.
package timeoff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/internal/appointments"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
	"github.com/chairtime/chairtime-backend/pkg/metrics"
	"github.com/chairtime/chairtime-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service creates time-off blocks and drives their cancellation cascade.
type Service interface {
	Create(ctx context.Context, input CreateTimeOffInput) (*CreateResult, error)
}

type service struct {
	tx           txRunner
	repo         *Repository
	appointments appointments.Service
	events       eventEmitter
	metrics      *metrics.BookingMetrics
	logg         *logger.Logger
}

// NewService builds the time-off service.
func NewService(
	tx txRunner,
	repo *Repository,
	appointmentsSvc appointments.Service,
	events eventEmitter,
	bookingMetrics *metrics.BookingMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("time off repository required")
	}
	if appointmentsSvc == nil {
		return nil, fmt.Errorf("appointment service required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		tx:           tx,
		repo:         repo,
		appointments: appointmentsSvc,
		events:       events,
		metrics:      bookingMetrics,
		logg:         logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateTimeOffInput) (*CreateResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	block := &models.TimeOff{
		ProviderID: input.ProviderID,
		StartsAt:   input.StartsAt,
		EndsAt:     input.EndsAt,
		Reason:     input.Reason,
	}

	// The block commits on its own before the cascade starts; cascade
	// failures must never roll it back.
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, block); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create time off")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CreateResult{TimeOff: *FromModel(block)}

	candidates, err := s.appointments.ConfirmedStartingWithin(ctx, input.ProviderID, input.StartsAt, input.EndsAt)
	if err != nil {
		// The block exists; surface the cascade problem to operators instead
		// of failing the request.
		s.reportCascadeFailure(ctx, block.ID, uuid.Nil, err)
		result.FailedCancellations = []uuid.UUID{}
		return result, nil
	}

	var cascadeErr error
	for _, candidate := range candidates {
		if err := s.appointments.CancelForTimeOff(ctx, candidate.ID); err != nil {
			cascadeErr = multierr.Append(cascadeErr, fmt.Errorf("cancel appointment %s: %w", candidate.ID, err))
			result.FailedCancellations = append(result.FailedCancellations, candidate.ID)
			s.metrics.IncCascadeFailure()
			continue
		}
		result.CancelledCount++
		s.metrics.IncCascadeCancellation()
	}
	if cascadeErr != nil {
		s.reportCascadeFailure(ctx, block.ID, input.ProviderID, cascadeErr)
	}

	emitErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTimeOffCreated,
			AggregateType: enums.AggregateTimeOff,
			AggregateID:   block.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: input.ActorRole.String()},
			Data: outbox.TimeOffEventData{
				TimeOffID:           block.ID,
				ProviderID:          block.ProviderID,
				StartsAt:            block.StartsAt,
				EndsAt:              block.EndsAt,
				CancelledCount:      result.CancelledCount,
				FailedCancellations: len(result.FailedCancellations),
			},
		})
	})
	if emitErr != nil && s.logg != nil {
		s.logg.Error(ctx, "time off event emit failed", emitErr)
	}

	return result, nil
}

func (s *service) reportCascadeFailure(ctx context.Context, timeOffID, providerID uuid.UUID, err error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"time_off_id": timeOffID.String(),
		"provider_id": providerID.String(),
	})
	s.logg.Error(logCtx, "time off cascade incomplete", err)
}

func validateInput(input CreateTimeOffInput) error {
	if input.ProviderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "provider id required")
	}
	switch input.ActorRole {
	case enums.RoleProvider:
		if input.ActorID != input.ProviderID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "providers may only take their own time off")
		}
	case enums.RoleAdmin:
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "only providers and admins may create time off")
	}
	if input.StartsAt.IsZero() || input.EndsAt.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end required")
	}
	if !input.StartsAt.Before(input.EndsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "time off must start before it ends")
	}
	return nil
}
