package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ManuelReschke/StreamFox/app/models"
	"github.com/ManuelReschke/StreamFox/internal/pkg/env"
)

const defaultJurisdiction = "eu"

// Forwarder provisions a per-user storage actor on first login and relays
// the event to it.
type Forwarder struct {
	BaseURL      string
	Jurisdiction string

	HTTPClient *http.Client
}

// ActorRequest is the body forwarded to a freshly provisioned actor.
type ActorRequest struct {
	Slug  string `json:"slug"`
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// ActorResponse carries the actor's reply so callers can propagate it
// verbatim to the webhook sender.
type ActorResponse struct {
	StatusCode int
	Body       []byte
}

func NewForwarderFromEnv() *Forwarder {
	return &Forwarder{
		BaseURL:      strings.TrimRight(env.GetEnv("ACTOR_BASE_URL", ""), "/"),
		Jurisdiction: env.GetEnv("ACTOR_JURISDICTION", defaultJurisdiction),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewActorID allocates a fresh identifier scoped to the forwarder's
// jurisdiction. Each first-login event gets its own actor.
func (f *Forwarder) NewActorID() string {
	jurisdiction := f.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = defaultJurisdiction
	}
	return jurisdiction + "-" + uuid.NewString()
}

// Handle allocates a new actor for the user and forwards the first-login
// event to it. The actor's response is returned as-is so downstream errors
// stay visible to the provider.
func (f *Forwarder) Handle(ctx context.Context, event models.FirstLoginEvent) (*ActorResponse, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid first-login event: %w", err)
	}
	if f.BaseURL == "" {
		return nil, errors.New("ACTOR_BASE_URL is not configured")
	}

	id := f.NewActorID()
	payload, err := json.Marshal(ActorRequest{
		Slug:  id,
		UID:   event.UID,
		Email: event.Email,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/new", f.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage actor unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return &ActorResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
