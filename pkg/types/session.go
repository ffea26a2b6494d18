package types

import (
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	"github.com/google/uuid"
)

// SessionEvent is delivered to subscribers after a user signs in or out.
type SessionEvent struct {
	Type   enums.SessionEventType `json:"type"`
	UserID uuid.UUID              `json:"user_id"`
}
