package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/StreamFox/app/controllers"
	"github.com/ManuelReschke/StreamFox/internal/pkg/cache"
	"github.com/ManuelReschke/StreamFox/internal/pkg/constants"
	"github.com/ManuelReschke/StreamFox/internal/pkg/env"
	"github.com/ManuelReschke/StreamFox/internal/pkg/middleware"
)

type WebhookRouter struct {
	store cache.Store
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{store: cache.NewRedisStore(nil)}
}

func (h *WebhookRouter) InstallRouter(app *fiber.App) {
	hooks := app.Group("/", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))

	ctrl := controllers.NewWebhookController(h.store)
	RegisterWebhookRoutes(hooks, ctrl, h.store)
}

// RegisterWebhookRoutes wires the webhook endpoints behind the shared
// validation pipeline. Both routes run the identical pipeline; only the
// signing secret differs.
func RegisterWebhookRoutes(r fiber.Router, ctrl *controllers.WebhookController, store cache.Store) {
	r.Post(constants.StreamWebhookRoute, middleware.WebhookAuth(middleware.WebhookAuthConfig{
		Provider:     "stream",
		SecretEnvKey: "STREAM_WEBHOOK_SECRET",
		Store:        store,
	}), ctrl.HandleStreamWebhook)

	r.Post(constants.Auth0StreamWorkerRoute, middleware.WebhookAuth(middleware.WebhookAuthConfig{
		Provider:     "auth0",
		SecretEnvKey: "AUTH0_WEBHOOK_SECRET",
		Store:        store,
	}), ctrl.HandleAuthStreamWorker)
}

// newLimiterStorage backs the rate limiter with Redis database 1 so limits
// survive restarts and are shared across instances. The cache itself uses
// database 0.
func newLimiterStorage() *redis.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redis.New(redis.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		Database: 1,
		Reset:    false,
	})
}
