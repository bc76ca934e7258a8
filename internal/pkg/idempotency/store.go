package idempotency

import (
	"context"
	"log"

	"github.com/ManuelReschke/StreamFox/internal/pkg/cache"
)

// Store tracks processed webhook deliveries. The key is the raw signature
// header text, so only byte-identical redeliveries are deduplicated; the
// same logical event re-signed with a new timestamp passes through.
type Store struct {
	kv cache.Store
}

func NewStore(kv cache.Store) *Store {
	return &Store{kv: kv}
}

// Seen reports whether this exact delivery was already processed. It runs
// before signature verification so replays are rejected cheaply.
func (s *Store) Seen(ctx context.Context, header string) (bool, error) {
	_, ok, err := s.kv.Get(ctx, header)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Record stores the raw body under the delivery's header key. SetNX keeps
// concurrent duplicates from both writing. The write is best-effort: a
// failure is logged and never fails the request that triggered it.
func (s *Store) Record(ctx context.Context, header string, rawBody []byte) {
	if _, err := s.kv.SetNX(ctx, header, string(rawBody)); err != nil {
		log.Printf("failed to record webhook delivery key: %v", err)
	}
}
