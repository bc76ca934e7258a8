package idempotency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/StreamFox/internal/pkg/cache"
)

func TestSeenAndRecord(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryStore()
	store := NewStore(kv)

	header := "time=123,sig1=deadbeef"

	seen, err := store.Seen(ctx, header)
	assert.NoError(t, err)
	assert.False(t, seen)

	store.Record(ctx, header, []byte(`{"uid":"v1"}`))

	seen, err = store.Seen(ctx, header)
	assert.NoError(t, err)
	assert.True(t, seen)

	// The recorded value is the raw body, kept for auditing.
	val, ok, err := kv.Get(ctx, header)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"uid":"v1"}`, val)
}

func TestRecordDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryStore()
	store := NewStore(kv)

	header := "time=123,sig1=deadbeef"
	store.Record(ctx, header, []byte("first"))
	store.Record(ctx, header, []byte("second"))

	val, ok, _ := kv.Get(ctx, header)
	assert.True(t, ok)
	assert.Equal(t, "first", val)
}
