// internal/models/qrcode.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// QRCode is the identity record issued for one physical product instance.
// Fields are partitioned into three visibility layers: the public layer is
// safe to encode into the scannable image, the auth layer carries the serial
// number and derived fingerprint, and the private layer holds manufacturer
// and distribution data.
type QRCode struct {
	BaseModel

	// Public layer
	ProductID         string    `json:"product_id" gorm:"size:100;not null;index"`
	ProductName       string    `json:"product_name" gorm:"size:255;not null"`
	ProductCategory   string    `json:"product_category" gorm:"size:100;index"`
	Manufacturer      string    `json:"manufacturer" gorm:"size:255;not null"`
	ManufacturingDate time.Time `json:"manufacturing_date"`
	ExpiryDate        time.Time `json:"expiry_date"`

	// Auth layer
	SerialNumber  string `json:"serial_number" gorm:"size:16;not null;uniqueIndex"`
	AuthHash      string `json:"auth_hash" gorm:"size:64;not null"`
	Authenticated bool   `json:"authenticated" gorm:"default:false"`
	// History is a request-time projection; it is never persisted and the
	// verify flow never populates it.
	History []TrackingEvent `json:"authentication_history,omitempty" gorm:"-"`

	// Private layer
	ManufacturerData ManufacturerData   `json:"manufacturer_data" gorm:"type:jsonb"`
	DistributionData DistributionEvents `json:"distribution_data,omitempty" gorm:"type:jsonb"`
	RetailData       *RetailData        `json:"retail_data,omitempty" gorm:"type:jsonb"`
}

func (QRCode) TableName() string {
	return "qr_codes"
}

// IsExpired reports whether the product has passed its expiry date.
func (q *QRCode) IsExpired(now time.Time) bool {
	return now.After(q.ExpiryDate)
}

// ManufacturerData is the private layer block written at creation time.
type ManufacturerData struct {
	FacilityID     string    `json:"facility_id"`
	ProductionLine string    `json:"production_line"`
	BatchNumber    string    `json:"batch_number"`
	QualityData    StringMap `json:"quality_data,omitempty"`
}

func (d ManufacturerData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ManufacturerData) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, d)
}

// DistributionEvent records one cold-chain hop. Entries are appended by
// downstream collaborators and never rewritten.
type DistributionEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	LocationID  string    `json:"location_id"`
	Status      string    `json:"status"`
	Temperature *float64  `json:"temperature,omitempty"`
	Humidity    *float64  `json:"humidity,omitempty"`
}

type DistributionEvents []DistributionEvent

func (d DistributionEvents) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *DistributionEvents) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, d)
}

// RetailData is the final placement block of the private layer.
type RetailData struct {
	StoreID        string     `json:"store_id"`
	ReceivedDate   *time.Time `json:"received_date,omitempty"`
	ShelfLocation  string     `json:"shelf_location,omitempty"`
	AdditionalInfo StringMap  `json:"additional_info,omitempty"`
}

func (r RetailData) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RetailData) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, r)
}
