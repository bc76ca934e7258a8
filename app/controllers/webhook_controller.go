package controllers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/StreamFox/app/models"
	"github.com/ManuelReschke/StreamFox/internal/pkg/cache"
	"github.com/ManuelReschke/StreamFox/internal/pkg/catalog"
	"github.com/ManuelReschke/StreamFox/internal/pkg/provision"
	"github.com/ManuelReschke/StreamFox/internal/pkg/stream"
)

// WebhookController owns the business handlers behind the authenticated
// webhook routes.
type WebhookController struct {
	Merger    *catalog.Merger
	Forwarder *provision.Forwarder
}

// NewWebhookController builds the controller with env-configured
// collaborators, backed by the shared Redis store.
func NewWebhookController(store cache.Store) *WebhookController {
	if store == nil {
		store = cache.NewRedisStore(nil)
	}
	return &WebhookController{
		Merger:    catalog.NewMerger(store, stream.NewClientFromEnv()),
		Forwarder: provision.NewForwarderFromEnv(),
	}
}

// HandleStreamWebhook merges a ready-video notification into the cached
// catalog projections.
func (ctrl *WebhookController) HandleStreamWebhook(c *fiber.Ctx) error {
	var video models.Video
	if err := json.Unmarshal(c.BodyRaw(), &video); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := ctrl.Merger.Handle(ctx, video); err != nil {
		log.Printf("stream webhook handling failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "catalog_update_failed"})
	}

	return c.Status(fiber.StatusOK).SendString("ok")
}

// HandleAuthStreamWorker provisions a storage actor for a first-login event
// and relays the actor's response verbatim.
func (ctrl *WebhookController) HandleAuthStreamWorker(c *fiber.Ctx) error {
	var event models.FirstLoginEvent
	if err := json.Unmarshal(c.BodyRaw(), &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	if err := event.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := ctrl.Forwarder.Handle(ctx, event)
	if err != nil {
		log.Printf("user provisioning failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "provisioning_failed"})
	}

	return c.Status(resp.StatusCode).Send(resp.Body)
}
