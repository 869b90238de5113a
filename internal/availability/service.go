// Package availability computes the bookable slot map for one provider at one
// store over a date range. It is a read path: no locking, stale reads are
// acceptable because the booking transaction re-checks overlap at insert time.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/internal/schedule"
	"github.com/chairtime/chairtime-backend/pkg/calendar"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

// DefaultMaxRangeDays caps one availability query when no limit is
// configured. A month view is the widest thing the booking UI renders.
const DefaultMaxRangeDays = 31

// Slot is one grid position on one day with its availability verdict. A slot
// is available only when the full service interval fits: inside an open
// block, ending by closing time, clear of the 12:00-13:00 break, and free of
// confirmed bookings and time off. Long services therefore lose late-morning
// slots that shorter ones keep.
type Slot struct {
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	StartsAt  time.Time `json:"starts_at"`
	Available bool      `json:"available"`
}

// Query identifies the calendar to evaluate.
type Query struct {
	StoreID    uuid.UUID
	ServiceID  uuid.UUID
	ProviderID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
}

type serviceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

type appointmentSource interface {
	ListBlocking(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error)
}

type timeOffSource interface {
	ListOverlapping(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.TimeOff, error)
}

// Service computes slot maps.
type Service interface {
	Compute(ctx context.Context, query Query) ([]Slot, error)
}

type service struct {
	schedule     schedule.Service
	services     serviceRepository
	appointments appointmentSource
	timeOff      timeOffSource
	maxRangeDays int
}

// NewService builds an availability service. A non-positive maxRangeDays
// falls back to DefaultMaxRangeDays.
func NewService(scheduleSvc schedule.Service, services serviceRepository, appointments appointmentSource, timeOff timeOffSource, maxRangeDays int) (Service, error) {
	if scheduleSvc == nil {
		return nil, fmt.Errorf("schedule service required")
	}
	if services == nil {
		return nil, fmt.Errorf("service repository required")
	}
	if appointments == nil {
		return nil, fmt.Errorf("appointment source required")
	}
	if timeOff == nil {
		return nil, fmt.Errorf("time off source required")
	}
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &service{
		schedule:     scheduleSvc,
		services:     services,
		appointments: appointments,
		timeOff:      timeOff,
		maxRangeDays: maxRangeDays,
	}, nil
}

func (s *service) Compute(ctx context.Context, query Query) ([]Slot, error) {
	if err := s.validateQuery(query); err != nil {
		return nil, err
	}

	offering, err := s.services.FindByID(ctx, query.ServiceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	if offering == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	if offering.DurationMinutes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service has no positive duration")
	}
	if offering.StoreID != query.StoreID || offering.ProviderID != query.ProviderID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service is not offered by this provider at this store")
	}

	rangeStart := calendar.DayStart(query.StartDate)
	rangeEnd := calendar.DayStart(query.EndDate).AddDate(0, 0, 1)

	booked, err := s.appointments.ListBlocking(ctx, query.ProviderID, rangeStart, rangeEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointments")
	}
	absences, err := s.timeOff.ListOverlapping(ctx, query.ProviderID, rangeStart, rangeEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load time off")
	}

	days := calendar.DaysBetween(query.StartDate, query.EndDate)
	grid := calendar.GridSlots()
	slots := make([]Slot, 0, len(days)*len(grid))

	for _, day := range days {
		open, err := s.schedule.OpenBlocks(ctx, query.StoreID, query.ProviderID, day)
		if err != nil {
			return nil, err
		}
		for _, minutes := range grid {
			slotStart := calendar.AtMinutes(day, minutes)
			slotEnd := slotStart.Add(time.Duration(offering.DurationMinutes) * time.Minute)
			available := len(open) > 0 &&
				calendar.SlotFits(open, minutes, offering.DurationMinutes) &&
				!intersectsAppointments(booked, slotStart, slotEnd) &&
				!intersectsTimeOff(absences, slotStart, slotEnd)
			slots = append(slots, Slot{
				Date:      day.Format("2006-01-02"),
				Time:      fmt.Sprintf("%02d:%02d", minutes/60, minutes%60),
				StartsAt:  slotStart,
				Available: available,
			})
		}
	}
	return slots, nil
}

func (s *service) validateQuery(query Query) error {
	if query.StoreID == uuid.Nil || query.ServiceID == uuid.Nil || query.ProviderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store, service and provider ids required")
	}
	if query.StartDate.IsZero() || query.EndDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end dates required")
	}
	start := calendar.DayStart(query.StartDate)
	end := calendar.DayStart(query.EndDate)
	if end.Before(start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}
	if end.Sub(start) > time.Duration(s.maxRangeDays)*24*time.Hour {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("date range exceeds %d days", s.maxRangeDays))
	}
	return nil
}

func intersectsAppointments(rows []models.Appointment, start, end time.Time) bool {
	for _, row := range rows {
		if start.Before(row.EndsAt) && end.After(row.StartsAt) {
			return true
		}
	}
	return false
}

func intersectsTimeOff(rows []models.TimeOff, start, end time.Time) bool {
	for _, row := range rows {
		if start.Before(row.EndsAt) && end.After(row.StartsAt) {
			return true
		}
	}
	return false
}
