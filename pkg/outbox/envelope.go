package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PayloadEnvelope is the wire shape stored in outbox_events and published to
// Pub/Sub. Consumers rely on these field names; treat them as frozen and bump
// Version for incompatible changes.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// ActorRef records which user triggered the event, when one did.
type ActorRef struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role,omitempty"`
}
