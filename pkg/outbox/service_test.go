package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	events := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	dlq := `
CREATE TABLE IF NOT EXISTS outbox_dlqs (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload_json TEXT NOT NULL,
  error_reason TEXT NOT NULL,
  error_message TEXT,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  failed_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(events).Error)
	require.NoError(t, db.Exec(dlq).Error)
	// The shared cache keeps rows across connections within the test binary.
	require.NoError(t, db.Exec(`DELETE FROM outbox_events`).Error)
	require.NoError(t, db.Exec(`DELETE FROM outbox_dlqs`).Error)
	return db
}

func TestEmitQueuesEnvelope(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	apptID := uuid.New()
	actor := &ActorRef{UserID: uuid.New(), Role: "provider"}
	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventAppointmentCancelled,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   apptID,
			Actor:         actor,
			Version:       1,
			Data: AppointmentEventData{
				AppointmentID: apptID,
				Status:        "cancelled",
			},
		})
	})
	require.NoError(t, err)

	rows, err := repo.FetchUnpublished(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.EventAppointmentCancelled, rows[0].EventType)
	assert.Equal(t, apptID, rows[0].AggregateID)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, "provider", envelope.Actor.Role)

	var data AppointmentEventData
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "cancelled", data.Status)
}

func TestEmitIfNotExistsDeduplicates(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	apptID := uuid.New()
	event := DomainEvent{
		EventType:     enums.EventAppointmentNoShow,
		AggregateType: enums.AggregateAppointment,
		AggregateID:   apptID,
		Version:       1,
		Data:          AppointmentEventData{AppointmentID: apptID, Status: "no_show"},
	}

	for i := 0; i < 2; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.EmitIfNotExists(context.Background(), tx, event)
		})
		require.NoError(t, err)
	}

	rows, err := repo.FetchUnpublished(10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMarkPublishedAndFailed(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	for _, id := range []uuid.UUID{uuid.New(), uuid.New()} {
		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.Emit(context.Background(), tx, DomainEvent{
				EventType:     enums.EventTimeOffCreated,
				AggregateType: enums.AggregateTimeOff,
				AggregateID:   id,
				Version:       1,
				Data:          TimeOffEventData{TimeOffID: id},
			})
		})
		require.NoError(t, err)
	}

	rows, err := repo.FetchUnpublished(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, repo.MarkPublished(rows[0].ID))
	require.NoError(t, repo.MarkFailed(rows[1].ID, errors.New("publish timeout")))

	remaining, err := repo.FetchUnpublished(10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, rows[1].ID, remaining[0].ID)
	assert.Equal(t, 1, remaining[0].AttemptCount)
	require.NotNil(t, remaining[0].LastError)
	assert.Equal(t, "publish timeout", *remaining[0].LastError)
}

func TestDLQInsertTruncatesError(t *testing.T) {
	db := setupOutboxTestDB(t)
	dlqRepo := NewDLQRepository(db)

	long := make([]byte, 2*maxDLQErrorLen)
	for i := range long {
		long[i] = 'x'
	}
	msg := string(long)

	eventID := uuid.New()
	err := db.Transaction(func(tx *gorm.DB) error {
		return dlqRepo.InsertTx(tx, models.OutboxDLQ{
			EventID:       eventID,
			EventType:     enums.EventAppointmentCancelled,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   uuid.New(),
			Payload:       json.RawMessage(`{}`),
			ErrorReason:   enums.OutboxDLQReasonMaxAttempts,
			ErrorMessage:  &msg,
			AttemptCount:  10,
		})
	})
	require.NoError(t, err)

	entry, err := dlqRepo.FindByEventID(context.Background(), eventID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.NotNil(t, entry.ErrorMessage)
	assert.Len(t, *entry.ErrorMessage, maxDLQErrorLen)
}
