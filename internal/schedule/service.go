package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/calendar"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

type scheduleRepository interface {
	StoreHoursFor(ctx context.Context, storeID uuid.UUID, dayOfWeek int) (*models.StoreHours, error)
	ListStoreHours(ctx context.Context, storeID uuid.UUID) ([]models.StoreHours, error)
	ReplaceStoreHours(ctx context.Context, storeID uuid.UUID, rows []models.StoreHours) error
	WeeklyHoursFor(ctx context.Context, storeID, providerID uuid.UUID, dayOfWeek int) ([]models.WeeklyHour, error)
	WeeklyHoursForDay(ctx context.Context, providerID uuid.UUID, dayOfWeek int) ([]models.WeeklyHour, error)
	ListWeeklyHours(ctx context.Context, providerID uuid.UUID) ([]models.WeeklyHour, error)
	CreateWeeklyHour(ctx context.Context, row *models.WeeklyHour) error
	DeleteWeeklyHour(ctx context.Context, providerID, hourID uuid.UUID) error
}

// Service resolves working hours and manages the schedules behind them.
type Service interface {
	// OpenBlocks returns the provider's bookable minute ranges for one day:
	// each weekly-hours block clipped to the store's opening window. An empty
	// result means the day is fully closed (no store hours row wins over any
	// provider schedule).
	OpenBlocks(ctx context.Context, storeID, providerID uuid.UUID, day time.Time) ([]calendar.MinuteRange, error)

	ListWeeklyHours(ctx context.Context, providerID uuid.UUID) ([]WeeklyHourDTO, error)
	AddWeeklyHour(ctx context.Context, input CreateWeeklyHourInput) (*WeeklyHourDTO, error)
	RemoveWeeklyHour(ctx context.Context, providerID, hourID uuid.UUID) error

	ListStoreHours(ctx context.Context, storeID uuid.UUID) ([]StoreHoursDTO, error)
	ReplaceStoreHours(ctx context.Context, input ReplaceStoreHoursInput) ([]StoreHoursDTO, error)
}

type service struct {
	repo scheduleRepository
}

// NewService builds a schedule service with the provided repository.
func NewService(repo scheduleRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("schedule repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) OpenBlocks(ctx context.Context, storeID, providerID uuid.UUID, day time.Time) ([]calendar.MinuteRange, error) {
	dayOfWeek := int(day.Weekday())

	hours, err := s.repo.StoreHoursFor(ctx, storeID, dayOfWeek)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store hours")
	}
	if hours == nil {
		return nil, nil
	}

	shifts, err := s.repo.WeeklyHoursFor(ctx, storeID, providerID, dayOfWeek)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load weekly hours")
	}
	if len(shifts) == 0 {
		return nil, nil
	}

	blocks := make([]calendar.MinuteRange, 0, len(shifts))
	for _, shift := range shifts {
		blocks = append(blocks, calendar.MinuteRange{Start: shift.StartsAt, End: shift.EndsAt})
	}
	open := calendar.MinuteRange{Start: hours.OpensAt, End: hours.ClosesAt}
	return calendar.IntersectAll(open, blocks), nil
}

func (s *service) ListWeeklyHours(ctx context.Context, providerID uuid.UUID) ([]WeeklyHourDTO, error) {
	if providerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider id required")
	}
	rows, err := s.repo.ListWeeklyHours(ctx, providerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list weekly hours")
	}
	out := make([]WeeklyHourDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromWeeklyHourModel(&rows[i]))
	}
	return out, nil
}

func (s *service) AddWeeklyHour(ctx context.Context, input CreateWeeklyHourInput) (*WeeklyHourDTO, error) {
	if input.ProviderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider id required")
	}
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if err := validateDayWindow(input.DayOfWeek, input.StartsAt, input.EndsAt); err != nil {
		return nil, err
	}

	// The overlap check spans every store on purpose: a provider cannot work
	// two shifts at once, no matter where each shift is booked.
	existing, err := s.repo.WeeklyHoursForDay(ctx, input.ProviderID, input.DayOfWeek)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load weekly hours")
	}
	candidate := calendar.MinuteRange{Start: input.StartsAt, End: input.EndsAt}
	for _, block := range existing {
		if candidate.Overlaps(calendar.MinuteRange{Start: block.StartsAt, End: block.EndsAt}) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "working block overlaps an existing one")
		}
	}

	row := &models.WeeklyHour{
		ProviderID: input.ProviderID,
		StoreID:    input.StoreID,
		DayOfWeek:  input.DayOfWeek,
		StartsAt:   input.StartsAt,
		EndsAt:     input.EndsAt,
	}
	if err := s.repo.CreateWeeklyHour(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create weekly hour")
	}
	return FromWeeklyHourModel(row), nil
}

func (s *service) RemoveWeeklyHour(ctx context.Context, providerID, hourID uuid.UUID) error {
	if providerID == uuid.Nil || hourID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "provider id and hour id required")
	}
	err := s.repo.DeleteWeeklyHour(ctx, providerID, hourID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "working block not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete weekly hour")
	}
	return nil
}

func (s *service) ListStoreHours(ctx context.Context, storeID uuid.UUID) ([]StoreHoursDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	rows, err := s.repo.ListStoreHours(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store hours")
	}
	out := make([]StoreHoursDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromStoreHoursModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ReplaceStoreHours(ctx context.Context, input ReplaceStoreHoursInput) ([]StoreHoursDTO, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	seen := map[int]bool{}
	rows := make([]models.StoreHours, 0, len(input.Days))
	for _, day := range input.Days {
		if err := validateDayWindow(day.DayOfWeek, day.OpensAt, day.ClosesAt); err != nil {
			return nil, err
		}
		if seen[day.DayOfWeek] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate day of week")
		}
		seen[day.DayOfWeek] = true
		rows = append(rows, models.StoreHours{
			DayOfWeek: day.DayOfWeek,
			OpensAt:   day.OpensAt,
			ClosesAt:  day.ClosesAt,
		})
	}
	if err := s.repo.ReplaceStoreHours(ctx, input.StoreID, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace store hours")
	}
	return s.ListStoreHours(ctx, input.StoreID)
}

func validateDayWindow(dayOfWeek, start, end int) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return pkgerrors.New(pkgerrors.CodeValidation, "day of week must be between 0 and 6")
	}
	window := calendar.MinuteRange{Start: start, End: end}
	if !window.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "window must be within one day and start before it ends")
	}
	return nil
}
