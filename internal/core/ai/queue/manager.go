package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"recipe-cart/internal/core/ai/provider"
	"recipe-cart/internal/infrastructure/config"
	"recipe-cart/internal/pkg/common"

	"go.uber.org/zap"
)

// request 佇列請求
type request struct {
	ctx    context.Context
	prompt string
	result chan result
}

// result 處理結果
type result struct {
	content string
	err     error
}

// Status 佇列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 以固定數量 worker 呼叫 AI 提供者，本身也實作 provider.Provider
type Manager struct {
	provider  provider.Provider
	config    config.QueueConfig
	queue     chan *request
	done      chan struct{}
	wg        sync.WaitGroup
	once      sync.Once
	processed int64
}

// NewManager 創建佇列管理器並啟動 worker
func NewManager(p provider.Provider, cfg config.QueueConfig) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1
	}

	m := &Manager{
		provider: p,
		config:   cfg,
		queue:    make(chan *request, cfg.MaxSize),
		done:     make(chan struct{}),
	}
	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}

	common.LogInfo("AI 佇列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

// Model 目前使用的模型
func (m *Manager) Model() string {
	return m.provider.Model()
}

// Complete 將提示加入佇列並等待結果；佇列已滿時立即回傳 ErrServiceUnavailable
func (m *Manager) Complete(ctx context.Context, prompt string) (string, error) {
	req := &request{
		ctx:    ctx,
		prompt: prompt,
		result: make(chan result, 1),
	}

	select {
	case <-m.done:
		return "", fmt.Errorf("queue manager is closed")
	default:
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued", zap.Int("queue_length", len(m.queue)))
	default:
		common.LogWarn("AI 佇列已滿", zap.Int("max_queue_size", m.config.MaxSize))
		return "", common.ErrServiceUnavailable.Wrap(fmt.Errorf("queue is full"))
	}

	select {
	case res := <-req.result:
		return res.content, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-m.done:
		return "", fmt.Errorf("queue manager is closed")
	}
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			if err := req.ctx.Err(); err != nil {
				req.result <- result{err: err}
				continue
			}
			content, err := m.provider.Complete(req.ctx, req.prompt)
			atomic.AddInt64(&m.processed, 1)
			req.result <- result{content: content, err: err}
		}
	}
}

// GetStatus 獲取佇列狀態
func (m *Manager) GetStatus() Status {
	return Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止 worker，等待進行中的請求結束
func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
	m.wg.Wait()
}
