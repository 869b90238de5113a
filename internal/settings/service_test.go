package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec(`DELETE FROM settings`).Error)
	return db
}

func TestBookingLimitsDefaults(t *testing.T) {
	db := setupSettingsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	limits, err := svc.BookingLimits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultBookingLimitPerWeek, limits.PerWeek)
	assert.Equal(t, DefaultBookingLimitPerMonth, limits.PerMonth)
}

func TestUpdateBookingLimitsAppliesImmediately(t *testing.T) {
	db := setupSettingsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	ctx := context.Background()
	updatedBy := "admin@chairtime.test"
	saved, err := svc.UpdateBookingLimits(ctx, BookingLimits{PerWeek: 3, PerMonth: 8}, &updatedBy)
	require.NoError(t, err)
	assert.Equal(t, BookingLimits{PerWeek: 3, PerMonth: 8}, saved)

	// Fresh read sees the new values without any cache invalidation.
	limits, err := svc.BookingLimits(ctx)
	require.NoError(t, err)
	assert.Equal(t, BookingLimits{PerWeek: 3, PerMonth: 8}, limits)

	// Second update overwrites.
	saved, err = svc.UpdateBookingLimits(ctx, BookingLimits{PerWeek: 1, PerMonth: 2}, &updatedBy)
	require.NoError(t, err)
	assert.Equal(t, BookingLimits{PerWeek: 1, PerMonth: 2}, saved)
}

func TestUpdateBookingLimitsRejectsNonPositive(t *testing.T) {
	db := setupSettingsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.UpdateBookingLimits(context.Background(), BookingLimits{PerWeek: 0, PerMonth: 2}, nil)
	assert.Error(t, err)

	_, err = svc.UpdateBookingLimits(context.Background(), BookingLimits{PerWeek: 1, PerMonth: -1}, nil)
	assert.Error(t, err)
}

func TestCorruptSettingFallsBack(t *testing.T) {
	db := setupSettingsTestDB(t)
	require.NoError(t, db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, KeyBookingLimitPerWeek, "not-a-number").Error)

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	limits, err := svc.BookingLimits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultBookingLimitPerWeek, limits.PerWeek)
}
