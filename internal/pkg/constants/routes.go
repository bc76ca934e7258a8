package constants

// Webhook route constants
const (
	StreamWebhookRoute     = "/stream"
	Auth0StreamWorkerRoute = "/auth0/stream-worker"
)
