package middleware

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/StreamFox/app/models"
	"github.com/ManuelReschke/StreamFox/app/repository"
	"github.com/ManuelReschke/StreamFox/internal/pkg/cache"
	"github.com/ManuelReschke/StreamFox/internal/pkg/env"
	"github.com/ManuelReschke/StreamFox/internal/pkg/idempotency"
	"github.com/ManuelReschke/StreamFox/internal/pkg/webhook"
)

// WebhookAuthConfig parametrizes the shared webhook validation pipeline.
// Every route runs the identical pipeline; only the secret differs.
type WebhookAuthConfig struct {
	// Provider labels the route in the audit log ("stream", "auth0").
	Provider string
	// SecretEnvKey names the env variable holding the signing secret.
	SecretEnvKey string
	// Store backs replay detection. Defaults to the shared Redis store.
	Store cache.Store
}

// WebhookAuth authenticates a signed webhook delivery before the business
// handler runs: missing header 422, malformed header 422, replayed delivery
// 409, bad signature 406. After a successful handler the delivery is
// recorded so redeliveries with the identical header are rejected.
func WebhookAuth(config WebhookAuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := config.Store
		if store == nil {
			store = cache.NewRedisStore(nil)
		}
		idem := idempotency.NewStore(store)

		header := c.Get(webhook.HeaderName)
		envelope, err := webhook.ParseSignatureHeader(header)
		if err == webhook.ErrMissingSignature {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "missing_signature"})
		}
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "malformed_signature"})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		// Replay check on the raw header text, before the HMAC work.
		seen, err := idem.Seen(ctx, envelope.Raw)
		if err != nil {
			log.Printf("replay check failed for %s webhook: %v", config.Provider, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "replay_check_failed"})
		}
		if seen {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "replayed_delivery"})
		}

		rawBody := append([]byte(nil), c.BodyRaw()...)
		secret := env.GetEnv(config.SecretEnvKey, "")
		message := webhook.SignedMessage(envelope.Timestamp, rawBody)
		if !webhook.VerifySignature(message, envelope.Signature, secret) {
			// Not recorded: a legitimate retry with a corrected signature
			// must still be able to succeed.
			return c.Status(fiber.StatusNotAcceptable).JSON(fiber.Map{"error": "invalid_signature"})
		}

		if err := c.Next(); err != nil {
			return err
		}

		// Record only handled deliveries. Both writes are best-effort and
		// never block or fail the response.
		if status := c.Response().StatusCode(); status >= 200 && status < 300 {
			idem.Record(ctx, envelope.Raw, rawBody)
			auditDelivery(config.Provider, envelope.Raw, rawBody)
		}
		return nil
	}
}

// auditDelivery appends the delivery to the optional database audit trail.
func auditDelivery(provider, key string, rawBody []byte) {
	factory := repository.GetGlobalFactory()
	if factory == nil {
		return
	}

	repo := factory.GetWebhookEventRepository()
	created, stored, err := repo.CreateIfNotExists(&models.WebhookEvent{
		Provider:       provider,
		IdempotencyKey: key,
		PayloadJSON:    string(rawBody),
		SignatureValid: true,
	})
	if err != nil {
		log.Printf("failed to audit %s webhook delivery: %v", provider, err)
		return
	}
	if created {
		if err := repo.MarkProcessed(stored.ID, ""); err != nil {
			log.Printf("failed to mark %s webhook delivery processed: %v", provider, err)
		}
	}
}
