package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recipe-cart/internal/core/ai/cache"
	"recipe-cart/internal/infrastructure/config"
	"recipe-cart/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeProvider) Model() string { return "test/model" }

func TestService_ProcessRequest_UsesCache(t *testing.T) {
	t.Parallel()

	cm := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Hour})
	t.Cleanup(func() { _ = cm.Close() })

	p := &fakeProvider{reply: `[{"name":"salt","quantity":"1 tsp"}]`}
	s := NewService(p, cm)
	ctx := context.Background()

	first, err := s.ProcessRequest(ctx, "ingredients  for\n soup")
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, p.reply, first.Content)

	second, err := s.ProcessRequest(ctx, "ingredients for soup")
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, p.reply, second.Content)

	assert.Equal(t, []string{"ingredients for soup"}, p.prompts)
}

func TestService_ProcessRequest_NoCache(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{reply: "ok"}
	s := NewService(p, nil)

	for i := 0; i < 2; i++ {
		resp, err := s.ProcessRequest(context.Background(), "hello")
		require.NoError(t, err)
		assert.False(t, resp.CacheHit)
	}
	assert.Len(t, p.prompts, 2)
}

func TestService_ProcessRequest_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty prompt", func(t *testing.T) {
		t.Parallel()
		s := NewService(&fakeProvider{}, nil)
		_, err := s.ProcessRequest(context.Background(), "  \n ")
		assert.True(t, common.IsValidationError(err))
	})

	t.Run("provider failure", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("upstream 500")
		s := NewService(&fakeProvider{err: boom}, nil)
		_, err := s.ProcessRequest(context.Background(), "hello")
		assert.ErrorIs(t, err, common.ErrAIServiceError)
		assert.ErrorIs(t, err, boom)
	})
}

func TestNormalizePrompt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", NormalizePrompt("  a \n b\t\tc "))
	assert.Equal(t, "", NormalizePrompt("   "))
}
