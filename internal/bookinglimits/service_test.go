package bookinglimits

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chairtime/chairtime-backend/internal/settings"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

type stubSettings struct {
	limits settings.BookingLimits
}

func (s *stubSettings) BookingLimits(ctx context.Context) (settings.BookingLimits, error) {
	return s.limits, nil
}

func (s *stubSettings) UpdateBookingLimits(ctx context.Context, limits settings.BookingLimits, updatedBy *string) (settings.BookingLimits, error) {
	s.limits = limits
	return s.limits, nil
}

// stubCounter returns canned counts keyed by window start.
type stubCounter struct {
	counts map[time.Time]int64
}

func (c *stubCounter) CountInWindow(ctx context.Context, customerID uuid.UUID, from, to time.Time) (int64, error) {
	return c.counts[from.UTC()], nil
}

func TestEnforceWeeklyLimit(t *testing.T) {
	ctx := context.Background()
	cfg := &stubSettings{limits: settings.BookingLimits{PerWeek: 1, PerMonth: 2}}

	// Wednesday 2026-03-11; its week runs Sun 2026-03-08 .. Sun 2026-03-15.
	startsAt := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	weekStart := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)

	counter := &stubCounter{counts: map[time.Time]int64{weekStart: 1}}
	svc, err := NewService(counter, cfg)
	require.NoError(t, err)

	err = svc.Enforce(ctx, nil, uuid.New(), startsAt)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeLimitExceeded, appErr.Code())

	violation, ok := appErr.Details().(Violation)
	require.True(t, ok)
	assert.Equal(t, LimitWeekly, violation.Limit)
	assert.EqualValues(t, 1, violation.Current)
	assert.Equal(t, 1, violation.Max)
	assert.Equal(t, weekStart, violation.WindowStart)
}

func TestEnforceMonthlyLimit(t *testing.T) {
	ctx := context.Background()
	cfg := &stubSettings{limits: settings.BookingLimits{PerWeek: 5, PerMonth: 2}}

	startsAt := time.Date(2026, time.March, 25, 14, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	counter := &stubCounter{counts: map[time.Time]int64{monthStart: 2}}
	svc, err := NewService(counter, cfg)
	require.NoError(t, err)

	err = svc.Enforce(ctx, nil, uuid.New(), startsAt)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeLimitExceeded, appErr.Code())

	violation, ok := appErr.Details().(Violation)
	require.True(t, ok)
	assert.Equal(t, LimitMonthly, violation.Limit)
}

func TestEnforceUnderLimit(t *testing.T) {
	ctx := context.Background()
	cfg := &stubSettings{limits: settings.BookingLimits{PerWeek: 1, PerMonth: 2}}
	counter := &stubCounter{counts: map[time.Time]int64{}}

	svc, err := NewService(counter, cfg)
	require.NoError(t, err)

	startsAt := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, svc.Enforce(ctx, nil, uuid.New(), startsAt))
}

func TestEnforceWindowsFollowRequestedStart(t *testing.T) {
	ctx := context.Background()
	cfg := &stubSettings{limits: settings.BookingLimits{PerWeek: 1, PerMonth: 2}}

	// The customer already holds this week's booking. A booking placed next
	// week falls in a fresh window and passes.
	thisWeekStart := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	counter := &stubCounter{counts: map[time.Time]int64{thisWeekStart: 1}}

	svc, err := NewService(counter, cfg)
	require.NoError(t, err)

	nextWeek := time.Date(2026, time.March, 17, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, svc.Enforce(ctx, nil, uuid.New(), nextWeek))
}

func TestStatusReportsBothWindows(t *testing.T) {
	ctx := context.Background()
	cfg := &stubSettings{limits: settings.BookingLimits{PerWeek: 1, PerMonth: 2}}

	weekStart := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	counter := &stubCounter{counts: map[time.Time]int64{weekStart: 1, monthStart: 1}}

	svc, err := NewService(counter, cfg)
	require.NoError(t, err)

	at := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)
	status, err := svc.Status(ctx, uuid.New(), at)
	require.NoError(t, err)

	assert.Equal(t, LimitWeekly, status.Weekly.Limit)
	assert.EqualValues(t, 1, status.Weekly.Used)
	assert.Equal(t, 1, status.Weekly.Max)
	assert.Equal(t, weekStart, status.Weekly.WindowStart)

	assert.Equal(t, LimitMonthly, status.Monthly.Limit)
	assert.EqualValues(t, 1, status.Monthly.Used)
	assert.Equal(t, 2, status.Monthly.Max)
	assert.Equal(t, monthStart, status.Monthly.WindowStart)

	// Weekly window is full, monthly still has room.
	assert.False(t, status.CanBookThisWeek)
	assert.True(t, status.CanBookThisMonth)
	assert.False(t, status.CanBook)
}

func TestStatusVerdictWithRoomInBothWindows(t *testing.T) {
	ctx := context.Background()
	cfg := &stubSettings{limits: settings.BookingLimits{PerWeek: 2, PerMonth: 5}}

	weekStart := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	counter := &stubCounter{counts: map[time.Time]int64{weekStart: 1, monthStart: 2}}

	svc, err := NewService(counter, cfg)
	require.NoError(t, err)

	at := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)
	status, err := svc.Status(ctx, uuid.New(), at)
	require.NoError(t, err)

	assert.True(t, status.CanBookThisWeek)
	assert.True(t, status.CanBookThisMonth)
	assert.True(t, status.CanBook)
}

func TestStatusRequiresCustomer(t *testing.T) {
	cfg := &stubSettings{limits: settings.BookingLimits{PerWeek: 1, PerMonth: 2}}
	svc, err := NewService(&stubCounter{}, cfg)
	require.NoError(t, err)

	_, err = svc.Status(context.Background(), uuid.Nil, time.Now())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
