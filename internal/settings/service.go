package settings

import (
	"context"
	"fmt"
	"strconv"

	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

const (
	KeyBookingLimitPerWeek  = "booking_limit_per_week"
	KeyBookingLimitPerMonth = "booking_limit_per_month"

	// Defaults apply when an administrator has never set a value.
	DefaultBookingLimitPerWeek  = 1
	DefaultBookingLimitPerMonth = 2
)

// BookingLimits carries the quota values in force at read time.
type BookingLimits struct {
	PerWeek  int `json:"per_week"`
	PerMonth int `json:"per_month"`
}

type settingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Upsert(ctx context.Context, key, value string, updatedBy *string) error
}

// Service exposes runtime-tunable settings. Booking limits are read fresh on
// every call so an admin change applies to the next booking attempt with no
// restart.
type Service interface {
	BookingLimits(ctx context.Context) (BookingLimits, error)
	UpdateBookingLimits(ctx context.Context, limits BookingLimits, updatedBy *string) (BookingLimits, error)
}

type service struct {
	repo settingsRepository
}

// NewService builds a settings service with the provided repository.
func NewService(repo settingsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) BookingLimits(ctx context.Context) (BookingLimits, error) {
	perWeek, err := s.intSetting(ctx, KeyBookingLimitPerWeek, DefaultBookingLimitPerWeek)
	if err != nil {
		return BookingLimits{}, err
	}
	perMonth, err := s.intSetting(ctx, KeyBookingLimitPerMonth, DefaultBookingLimitPerMonth)
	if err != nil {
		return BookingLimits{}, err
	}
	return BookingLimits{PerWeek: perWeek, PerMonth: perMonth}, nil
}

func (s *service) UpdateBookingLimits(ctx context.Context, limits BookingLimits, updatedBy *string) (BookingLimits, error) {
	if limits.PerWeek <= 0 {
		return BookingLimits{}, pkgerrors.New(pkgerrors.CodeValidation, "weekly booking limit must be positive")
	}
	if limits.PerMonth <= 0 {
		return BookingLimits{}, pkgerrors.New(pkgerrors.CodeValidation, "monthly booking limit must be positive")
	}
	if err := s.repo.Upsert(ctx, KeyBookingLimitPerWeek, strconv.Itoa(limits.PerWeek), updatedBy); err != nil {
		return BookingLimits{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save weekly limit")
	}
	if err := s.repo.Upsert(ctx, KeyBookingLimitPerMonth, strconv.Itoa(limits.PerMonth), updatedBy); err != nil {
		return BookingLimits{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save monthly limit")
	}
	return s.BookingLimits(ctx)
}

func (s *service) intSetting(ctx context.Context, key string, fallback int) (int, error) {
	raw, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read setting")
	}
	if !ok {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		// A corrupt row must not take bookings down; fall back and let the
		// admin surface fix the value.
		return fallback, nil
	}
	return value, nil
}
