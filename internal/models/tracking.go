// internal/models/tracking.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TrackingEvent is one immutable audit entry for a lifecycle action against
// a QR code record. Events reference the record by id and are append-only;
// nothing in the codebase updates or deletes a row once written.
type TrackingEvent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QRCodeID  uuid.UUID `json:"qr_code_id" gorm:"type:uuid;not null;index"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index:idx_tracking_events_qr_time,sort:desc"`
	Action    string    `json:"action" gorm:"size:50;not null"`
	Actor     ActorInfo `json:"actor" gorm:"type:jsonb"`
	Location  string    `json:"location" gorm:"size:255"`
	Metadata  StringMap `json:"metadata,omitempty" gorm:"type:jsonb"`
}

func (TrackingEvent) TableName() string {
	return "tracking_events"
}

// ActorInfo identifies who performed the action, e.g. SYSTEM/QRCODE_GENERATOR
// for creation or USER/ANONYMOUS for a public verification.
type ActorInfo struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (a ActorInfo) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *ActorInfo) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, a)
}
