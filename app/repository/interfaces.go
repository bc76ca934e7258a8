package repository

import (
	"github.com/ManuelReschke/StreamFox/app/models"
)

// WebhookEventRepository defines the interface for webhook audit-log
// database operations.
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
	GetByKey(provider, idempotencyKey string) (*models.WebhookEvent, error)
	ListRecent(provider string, limit int) ([]models.WebhookEvent, error)
}
