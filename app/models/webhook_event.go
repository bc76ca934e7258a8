package models

import "time"

const (
	WebhookProviderStream = "stream"
	WebhookProviderAuth0  = "auth0"
)

// WebhookEvent stores processed webhook deliveries with deduplication
// metadata for auditing. The authoritative replay check lives in the
// key-value store; this table is a best-effort trail.
type WebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Provider        string     `gorm:"type:varchar(20);not null;index:ux_webhook_events_provider_key,unique,priority:1;index" json:"provider"`
	IdempotencyKey  string     `gorm:"type:varchar(191);not null;default:'';index:ux_webhook_events_provider_key,unique,priority:2" json:"idempotency_key"`
	PayloadJSON     string     `gorm:"type:longtext;not null" json:"payload_json"`
	SignatureValid  bool       `gorm:"default:false;index" json:"signature_valid"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
