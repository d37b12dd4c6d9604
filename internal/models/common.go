// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// StringMap is a jsonb column holding flat string key/value data
// (quality data, event metadata).
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Enums
type UserRole string

const (
	UserRoleAdmin        UserRole = "admin"
	UserRoleManufacturer UserRole = "manufacturer"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// Tracking actions form an open set; these are the ones written today.
const (
	TrackingActionCreated  = "CREATED"
	TrackingActionVerified = "VERIFIED"
)

// Actor identities used by the lifecycle service.
const (
	ActorTypeSystem = "SYSTEM"
	ActorTypeUser   = "USER"

	ActorIDGenerator = "QRCODE_GENERATOR"
	ActorIDAnonymous = "ANONYMOUS"
)

// Verification methods recorded in event metadata.
const (
	VerificationMethodSerial = "SERIAL"
)
