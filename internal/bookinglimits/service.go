// Package bookinglimits enforces the per-customer weekly and monthly booking
// quotas. Limits are read fresh from settings on every evaluation and windows
// are anchored to the requested start time, not to "now": a booking next
// month consumes next month's quota.
package bookinglimits

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/internal/settings"
	"github.com/chairtime/chairtime-backend/pkg/calendar"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

const (
	LimitWeekly  = "weekly"
	LimitMonthly = "monthly"
)

// Counter counts quota-consuming appointments in a start-time window.
// Callers inside a booking transaction pass their tx-bound repository so the
// count and the insert see the same snapshot.
type Counter interface {
	CountInWindow(ctx context.Context, customerID uuid.UUID, from, to time.Time) (int64, error)
}

// WindowStatus describes one quota window around a reference instant.
type WindowStatus struct {
	Limit       string    `json:"limit"`
	Used        int64     `json:"used"`
	Max         int       `json:"max"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// StatusDTO reports both quota windows for a customer. CanBook is the
// verdict for a booking at the reference instant: both windows must have
// room.
type StatusDTO struct {
	CustomerID       uuid.UUID    `json:"customer_id"`
	Weekly           WindowStatus `json:"weekly"`
	Monthly          WindowStatus `json:"monthly"`
	CanBookThisWeek  bool         `json:"can_book_this_week"`
	CanBookThisMonth bool         `json:"can_book_this_month"`
	CanBook          bool         `json:"can_book"`
}

// Violation is attached as structured detail on a limit rejection so the
// client can tell the user which window is exhausted.
type Violation struct {
	Limit       string    `json:"limit"`
	Current     int64     `json:"current"`
	Max         int       `json:"max"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// Service evaluates and reports booking quotas.
type Service interface {
	// Status reports both windows around the reference instant using the
	// service's own (non-transactional) counter.
	Status(ctx context.Context, customerID uuid.UUID, at time.Time) (*StatusDTO, error)
	// Enforce fails with BOOKING_LIMIT_EXCEEDED when the booking at the
	// given start would breach either window. The caller supplies the
	// counter so the check can share the booking transaction.
	Enforce(ctx context.Context, counter Counter, customerID uuid.UUID, startsAt time.Time) error
}

type service struct {
	counter  Counter
	settings settings.Service
}

// NewService builds a booking limit service.
func NewService(counter Counter, settingsSvc settings.Service) (Service, error) {
	if counter == nil {
		return nil, fmt.Errorf("appointment counter required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	return &service{counter: counter, settings: settingsSvc}, nil
}

func (s *service) Status(ctx context.Context, customerID uuid.UUID, at time.Time) (*StatusDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	limits, err := s.settings.BookingLimits(ctx)
	if err != nil {
		return nil, err
	}

	weekStart, weekEnd := calendar.WeekBounds(at)
	monthStart, monthEnd := calendar.MonthBounds(at)

	weekUsed, err := s.counter.CountInWindow(ctx, customerID, weekStart, weekEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count weekly bookings")
	}
	monthUsed, err := s.counter.CountInWindow(ctx, customerID, monthStart, monthEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count monthly bookings")
	}

	canWeek := weekUsed < int64(limits.PerWeek)
	canMonth := monthUsed < int64(limits.PerMonth)

	return &StatusDTO{
		CustomerID:       customerID,
		CanBookThisWeek:  canWeek,
		CanBookThisMonth: canMonth,
		CanBook:          canWeek && canMonth,
		Weekly: WindowStatus{
			Limit:       LimitWeekly,
			Used:        weekUsed,
			Max:         limits.PerWeek,
			WindowStart: weekStart,
			WindowEnd:   weekEnd,
		},
		Monthly: WindowStatus{
			Limit:       LimitMonthly,
			Used:        monthUsed,
			Max:         limits.PerMonth,
			WindowStart: monthStart,
			WindowEnd:   monthEnd,
		},
	}, nil
}

func (s *service) Enforce(ctx context.Context, counter Counter, customerID uuid.UUID, startsAt time.Time) error {
	if counter == nil {
		counter = s.counter
	}
	limits, err := s.settings.BookingLimits(ctx)
	if err != nil {
		return err
	}

	weekStart, weekEnd := calendar.WeekBounds(startsAt)
	weekUsed, err := counter.CountInWindow(ctx, customerID, weekStart, weekEnd)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count weekly bookings")
	}
	if weekUsed >= int64(limits.PerWeek) {
		return pkgerrors.New(pkgerrors.CodeLimitExceeded, "weekly booking limit reached").
			WithDetails(Violation{
				Limit:       LimitWeekly,
				Current:     weekUsed,
				Max:         limits.PerWeek,
				WindowStart: weekStart,
				WindowEnd:   weekEnd,
			})
	}

	monthStart, monthEnd := calendar.MonthBounds(startsAt)
	monthUsed, err := counter.CountInWindow(ctx, customerID, monthStart, monthEnd)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count monthly bookings")
	}
	if monthUsed >= int64(limits.PerMonth) {
		return pkgerrors.New(pkgerrors.CodeLimitExceeded, "monthly booking limit reached").
			WithDetails(Violation{
				Limit:       LimitMonthly,
				Current:     monthUsed,
				Max:         limits.PerMonth,
				WindowStart: monthStart,
				WindowEnd:   monthEnd,
			})
	}
	return nil
}
