package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/internal/bookinglimits"
	"github.com/chairtime/chairtime-backend/internal/schedule"
	"github.com/chairtime/chairtime-backend/pkg/calendar"
	dbpkg "github.com/chairtime/chairtime-backend/pkg/db"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
	"github.com/chairtime/chairtime-backend/pkg/metrics"
	"github.com/chairtime/chairtime-backend/pkg/outbox"
	"github.com/chairtime/chairtime-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type serviceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

type timeOffSource interface {
	ListOverlapping(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.TimeOff, error)
}

type blacklistWriter interface {
	Append(ctx context.Context, entry *models.BlacklistEntry) error
	ExistsForAppointment(ctx context.Context, customerID, appointmentID uuid.UUID) (bool, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service owns the appointment lifecycle: booking under concurrency guards,
// status transitions and their side effects.
type Service interface {
	Create(ctx context.Context, input CreateAppointmentInput) (*AppointmentDTO, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*AppointmentDTO, error)
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole enums.ActorRole, id uuid.UUID) (*AppointmentDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListPage, error)
	ListForProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]AppointmentDTO, error)

	// ConfirmedStartingWithin lists the cascade candidates for a time-off
	// window. CancelForTimeOff cancels one of them in its own transaction so
	// a single failure never rolls back the rest of the cascade.
	ConfirmedStartingWithin(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]AppointmentDTO, error)
	CancelForTimeOff(ctx context.Context, appointmentID uuid.UUID) error
}

type service struct {
	tx        txRunner
	repo      *Repository
	services  serviceRepository
	schedule  schedule.Service
	timeOff   timeOffSource
	limits    bookinglimits.Service
	blacklist blacklistWriter
	events    eventEmitter
	metrics   *metrics.BookingMetrics
	logg      *logger.Logger
}

// NewService builds the appointment lifecycle service.
func NewService(
	tx txRunner,
	repo *Repository,
	services serviceRepository,
	scheduleSvc schedule.Service,
	timeOff timeOffSource,
	limits bookinglimits.Service,
	blacklist blacklistWriter,
	events eventEmitter,
	bookingMetrics *metrics.BookingMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("appointment repository required")
	}
	if services == nil {
		return nil, fmt.Errorf("service repository required")
	}
	if scheduleSvc == nil {
		return nil, fmt.Errorf("schedule service required")
	}
	if timeOff == nil {
		return nil, fmt.Errorf("time off source required")
	}
	if limits == nil {
		return nil, fmt.Errorf("booking limit service required")
	}
	if blacklist == nil {
		return nil, fmt.Errorf("blacklist writer required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		tx:        tx,
		repo:      repo,
		services:  services,
		schedule:  scheduleSvc,
		timeOff:   timeOff,
		limits:    limits,
		blacklist: blacklist,
		events:    events,
		metrics:   bookingMetrics,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateAppointmentInput) (*AppointmentDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	offering, err := s.services.FindByID(ctx, input.ServiceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	if offering == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	if offering.StoreID != input.StoreID || offering.ProviderID != input.ProviderID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service is not offered by this provider at this store")
	}
	if offering.DurationMinutes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service has no positive duration")
	}

	startsAt := input.StartsAt
	endsAt := startsAt.Add(time.Duration(offering.DurationMinutes) * time.Minute)
	slotStart := calendar.MinutesOfDay(startsAt)

	appt := &models.Appointment{
		StoreID:    input.StoreID,
		ProviderID: input.ProviderID,
		CustomerID: input.CustomerID,
		ServiceID:  input.ServiceID,
		Status:     enums.AppointmentStatusConfirmed,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		Notes:      input.Notes,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		// Serialize against bookings fighting over the same provider window
		// and the same customer's quota. Disjoint providers and customers do
		// not contend.
		if err := dbpkg.AdvisoryLock(tx, "booking:provider:"+input.ProviderID.String()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock provider calendar")
		}
		if err := dbpkg.AdvisoryLock(tx, "booking:customer:"+input.CustomerID.String()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock customer quota")
		}

		open, err := s.schedule.OpenBlocks(ctx, input.StoreID, input.ProviderID, startsAt)
		if err != nil {
			return err
		}
		if len(open) == 0 || !calendar.SlotFits(open, slotStart, offering.DurationMinutes) {
			return pkgerrors.New(pkgerrors.CodeConflict, "slot is outside working hours")
		}

		absences, err := s.timeOff.ListOverlapping(ctx, input.ProviderID, startsAt, endsAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load time off")
		}
		if len(absences) > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "provider is away during this slot")
		}

		txRepo := s.repo.WithTx(tx)

		taken, err := txRepo.HasOverlap(ctx, input.ProviderID, startsAt, endsAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check overlap")
		}
		if taken {
			s.metrics.IncSlotConflict()
			return pkgerrors.New(pkgerrors.CodeConflict, "slot already booked")
		}

		// Admins booking on a customer's behalf bypass the quota.
		if input.ActorRole != enums.RoleAdmin {
			if err := s.limits.Enforce(ctx, txRepo, input.CustomerID, startsAt); err != nil {
				if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeLimitExceeded {
					if violation, ok := appErr.Details().(bookinglimits.Violation); ok {
						s.metrics.IncLimitRejection(violation.Limit)
					}
				}
				return err
			}
		}

		if err := txRepo.Create(ctx, appt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create appointment")
		}

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAppointmentCreated,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appt.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: input.ActorRole.String()},
			Data:          appointmentEventData(appt, false),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncBookingCreated(input.ActorRole.String())
	return FromModel(appt), nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*AppointmentDTO, error) {
	if input.AppointmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id required")
	}
	if !input.Status.IsValid() || !input.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target status must be cancelled, completed or no_show")
	}

	appt, err := s.repo.FindByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
	}
	if appt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}

	if err := authorizeTransition(input, appt); err != nil {
		return nil, err
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	if input.Status == enums.AppointmentStatusCompleted && now.Before(appt.EndsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "appointment has not ended yet")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var cancelledBy *uuid.UUID
		if input.Status == enums.AppointmentStatusCancelled {
			actor := input.ActorID
			cancelledBy = &actor
		}
		ok, err := s.repo.WithTx(tx).TransitionStatus(ctx, appt.ID, input.Status, cancelledBy)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "appointment is no longer confirmed")
		}
		appt.Status = input.Status
		appt.CancelledBy = cancelledBy

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     eventTypeForStatus(input.Status),
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appt.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: input.ActorRole.String()},
			Data:          appointmentEventData(appt, false),
		})
	})
	if err != nil {
		return nil, err
	}

	if input.Status == enums.AppointmentStatusNoShow {
		s.appendBlacklist(ctx, appt)
	}
	return FromModel(appt), nil
}

// appendBlacklist records a no-show after the status commit. The transition
// stands even when this write fails; the failure is logged and counted so
// operators can repair the audit trail.
func (s *service) appendBlacklist(ctx context.Context, appt *models.Appointment) {
	exists, err := s.blacklist.ExistsForAppointment(ctx, appt.CustomerID, appt.ID)
	if err == nil && exists {
		return
	}
	if err == nil {
		entry := &models.BlacklistEntry{
			CustomerID:    appt.CustomerID,
			AppointmentID: appt.ID,
			Reason:        "no_show",
		}
		err = s.blacklist.Append(ctx, entry)
		if err == nil {
			err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
				return s.events.Emit(ctx, tx, outbox.DomainEvent{
					EventType:     enums.EventCustomerBlacklisted,
					AggregateType: enums.AggregateBlacklistEntry,
					AggregateID:   entry.ID,
					Data: outbox.BlacklistEventData{
						EntryID:       entry.ID,
						CustomerID:    appt.CustomerID,
						AppointmentID: appt.ID,
						Reason:        "no_show",
					},
				})
			})
		}
	}
	if err != nil {
		s.metrics.IncBlacklistWriteFailure()
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"appointment_id": appt.ID.String(),
				"customer_id":    appt.CustomerID.String(),
			})
			s.logg.Error(logCtx, "blacklist append failed after no-show", err)
		}
	}
}

func (s *service) GetByID(ctx context.Context, actorID uuid.UUID, actorRole enums.ActorRole, id uuid.UUID) (*AppointmentDTO, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
	}
	if appt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}
	if actorRole != enums.RoleAdmin && appt.CustomerID != actorID && appt.ProviderID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "appointment belongs to another user")
	}
	return FromModel(appt), nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListPage, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	params.Limit = limit

	rows, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}

	page := &ListPage{Items: make([]AppointmentDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			cursor := pagination.EncodeCursor(pagination.Cursor{StartsAt: last.StartsAt, ID: last.ID})
			page.NextCursor = &cursor
			break
		}
		page.Items = append(page.Items, *FromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) ListForProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]AppointmentDTO, error) {
	if providerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider id required")
	}
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window must start before it ends")
	}
	rows, err := s.repo.ListByProvider(ctx, providerID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}
	out := make([]AppointmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ConfirmedStartingWithin(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]AppointmentDTO, error) {
	rows, err := s.repo.ListConfirmedStartingWithin(ctx, providerID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cascade candidates")
	}
	out := make([]AppointmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CancelForTimeOff(ctx context.Context, appointmentID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		appt, err := txRepo.FindByID(ctx, appointmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
		}
		if appt == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
		}

		ok, err := txRepo.TransitionStatus(ctx, appointmentID, enums.AppointmentStatusCancelled, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition status")
		}
		if !ok {
			// Already terminal; nothing to cancel.
			return nil
		}
		appt.Status = enums.AppointmentStatusCancelled

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAppointmentCancelled,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appt.ID,
			Data:          appointmentEventData(appt, true),
		})
	})
}

func validateCreateInput(input CreateAppointmentInput) error {
	if input.CustomerID == uuid.Nil || input.ProviderID == uuid.Nil ||
		input.StoreID == uuid.Nil || input.ServiceID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer, provider, store and service ids required")
	}
	if !input.ActorRole.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid actor role")
	}
	switch input.ActorRole {
	case enums.RoleCustomer:
		if input.CustomerID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "customers may only book for themselves")
		}
	case enums.RoleAdmin:
		// Admins may book on any customer's behalf.
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "only customers and admins may book")
	}
	if input.StartsAt.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start time required")
	}
	if input.StartsAt.Second() != 0 || input.StartsAt.Nanosecond() != 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "start time must align to the slot grid")
	}
	if !isGridStart(calendar.MinutesOfDay(input.StartsAt)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start time must align to the slot grid")
	}
	return nil
}

func isGridStart(minutes int) bool {
	if minutes%calendar.SlotMinutes != 0 {
		return false
	}
	if minutes < calendar.GridOpensAt || minutes >= calendar.GridClosesAt {
		return false
	}
	return minutes < calendar.LunchStartsAt || minutes >= calendar.LunchEndsAt
}

func authorizeTransition(input UpdateStatusInput, appt *models.Appointment) error {
	switch input.ActorRole {
	case enums.RoleAdmin:
		return nil
	case enums.RoleProvider:
		if appt.ProviderID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "appointment belongs to another provider")
		}
		return nil
	case enums.RoleCustomer:
		if appt.CustomerID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "appointment belongs to another customer")
		}
		if input.Status != enums.AppointmentStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeForbidden, "customers may only cancel")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid actor role")
	}
}

func eventTypeForStatus(status enums.AppointmentStatus) enums.OutboxEventType {
	switch status {
	case enums.AppointmentStatusCompleted:
		return enums.EventAppointmentCompleted
	case enums.AppointmentStatusNoShow:
		return enums.EventAppointmentNoShow
	default:
		return enums.EventAppointmentCancelled
	}
}

func appointmentEventData(appt *models.Appointment, cascaded bool) outbox.AppointmentEventData {
	return outbox.AppointmentEventData{
		AppointmentID: appt.ID,
		StoreID:       appt.StoreID,
		ProviderID:    appt.ProviderID,
		CustomerID:    appt.CustomerID,
		ServiceID:     appt.ServiceID,
		Status:        appt.Status.String(),
		StartsAt:      appt.StartsAt,
		EndsAt:        appt.EndsAt,
		Cascaded:      cascaded,
	}
}
