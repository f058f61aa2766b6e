package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-cart/internal/core/ai/cache"
	"recipe-cart/internal/core/ai/provider"
	"recipe-cart/internal/pkg/common"
	"recipe-cart/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Response AI 回應
type Response struct {
	Content  string
	CacheHit bool
}

// Service AI 服務：統一 prompt、查快取、呼叫提供者並寫回快取
type Service struct {
	provider     provider.Provider
	cacheManager *cache.Manager
}

// NewService 創建 AI 服務，cacheManager 可為 nil
func NewService(p provider.Provider, cacheManager *cache.Manager) *Service {
	return &Service{
		provider:     p,
		cacheManager: cacheManager,
	}
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	prompt = NormalizePrompt(prompt)
	if prompt == "" {
		return nil, common.NewValidationError("prompt is empty")
	}

	if val, ok := s.cacheManager.Get(prompt); ok && val != "" {
		metrics.RecordAICacheLookup(true)
		return &Response{Content: val, CacheHit: true}, nil
	}
	metrics.RecordAICacheLookup(false)

	start := time.Now()
	content, err := s.provider.Complete(ctx, prompt)
	metrics.RecordAIRequest(time.Since(start), err)
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("model %s: %w", s.provider.Model(), err))
	}

	if err := s.cacheManager.Set(prompt, content); err != nil {
		common.LogWarn("Failed to cache AI response", zap.Error(err))
	}

	return &Response{Content: content}, nil
}

// NormalizePrompt 去除多餘空白與換行，確保快取 key 一致
func NormalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}
