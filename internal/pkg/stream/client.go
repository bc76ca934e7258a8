package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ManuelReschke/StreamFox/app/models"
	"github.com/ManuelReschke/StreamFox/internal/pkg/env"
)

const defaultStreamAPIBaseURL = "https://api.cloudflare.com/client/v4"

// Client talks to the hosted-video provider's account API.
type Client struct {
	AccountID string
	APIToken  string
	BaseURL   string

	HTTPClient *http.Client
}

// ListOptions narrows a video listing. Zero values are omitted from the query.
type ListOptions struct {
	Limit  int
	Status string
	Search string
}

type listResponse struct {
	Result []models.Video `json:"result"`
}

func NewClientFromEnv() *Client {
	return &Client{
		AccountID: strings.TrimSpace(env.GetEnv("STREAM_ACCOUNT_ID", "")),
		APIToken:  strings.TrimSpace(env.GetEnv("STREAM_API_TOKEN", "")),
		BaseURL:   strings.TrimRight(env.GetEnv("STREAM_API_BASE_URL", defaultStreamAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListVideos fetches videos for the configured account, most recent first.
func (c *Client) ListVideos(ctx context.Context, opts ListOptions) ([]models.Video, error) {
	if c.AccountID == "" {
		return nil, errors.New("STREAM_ACCOUNT_ID is not configured")
	}
	if c.APIToken == "" {
		return nil, errors.New("STREAM_API_TOKEN is not configured")
	}

	u, err := url.Parse(fmt.Sprintf("%s/accounts/%s/stream", c.BaseURL, c.AccountID))
	if err != nil {
		return nil, fmt.Errorf("invalid STREAM_API_BASE_URL: %w", err)
	}
	q := u.Query()
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stream video listing failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out listResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("stream video listing returned invalid JSON: %w", err)
	}
	return out.Result, nil
}
