package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/StreamFox/app/models"
)

type webhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a webhook audit-log repository backed by GORM.
func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "idempotency_key"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("provider = ? AND idempotency_key = ?", event.Provider, event.IdempotencyKey).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *webhookEventRepository) MarkProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *webhookEventRepository) GetByKey(provider, idempotencyKey string) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	err := r.db.Where("provider = ? AND idempotency_key = ?", provider, idempotencyKey).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *webhookEventRepository) ListRecent(provider string, limit int) ([]models.WebhookEvent, error) {
	var events []models.WebhookEvent
	err := r.db.Where("provider = ?", provider).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
