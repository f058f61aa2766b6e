package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/core/ingredient"
	"recipe-cart/internal/core/pricing"
	"recipe-cart/internal/core/quantity"
	"recipe-cart/internal/pkg/common"
	"recipe-cart/internal/pkg/metrics"

	"go.uber.org/zap"
)

// AddRequest 加入購物車請求
type AddRequest struct {
	ProductID      string `json:"product_id,omitempty"`
	ProductName    string `json:"product_name" binding:"required"`
	IngredientName string `json:"ingredient_name,omitempty"`
	Quantity       string `json:"quantity,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
}

// Service 購物車服務；同一 session 的寫入依序執行
type Service struct {
	store   Store
	catalog catalog.Catalog
	calc    *pricing.Calculator
	merger  *Merger
	locks   sessionLocks
	now     func() time.Time
}

// NewService 創建購物車服務
func NewService(store Store, c catalog.Catalog, calc *pricing.Calculator) *Service {
	return &Service{
		store:   store,
		catalog: c,
		calc:    calc,
		merger:  NewMerger(calc),
		now:     time.Now,
	}
}

// Get 讀取購物車
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	return s.store.Load(ctx, sessionID)
}

// Add 解析商品、驗證數量、計價後合併進購物車
func (s *Service) Add(ctx context.Context, sessionID string, req AddRequest) (c *Cart, outcome MergeOutcome, err error) {
	defer func() { metrics.RecordCartOperation("add", err) }()

	unlock := s.locks.lock(sessionID)
	defer unlock()

	item, err := s.buildLine(ctx, req)
	if err != nil {
		return nil, MergeOutcome{}, err
	}

	c, err = s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, MergeOutcome{}, err
	}

	c, outcome = s.merger.AddOrMerge(ctx, c, item)
	if err = s.save(ctx, c); err != nil {
		return nil, MergeOutcome{}, err
	}

	common.LogInfo("購物車已更新",
		zap.String("session_id", sessionID),
		zap.String("product", item.ProductName),
		zap.String("quantity", item.Quantity),
		zap.Bool("merged", outcome.Merged),
	)
	return c, outcome, nil
}

// buildLine 依商品 ID 或名稱找出商品資訊並產生待合併的項目
func (s *Service) buildLine(ctx context.Context, req AddRequest) (Line, error) {
	line := Line{
		ProductName:    req.ProductName,
		IngredientName: req.IngredientName,
		ImageURL:       req.ImageURL,
	}
	if line.IngredientName == "" {
		line.IngredientName = req.ProductName
	}

	var (
		unit       string
		minQty     float64
		defaultQty string
		found      bool
	)

	if req.ProductID != "" {
		p, err := s.catalog.FindByID(ctx, req.ProductID)
		if err != nil {
			return Line{}, fmt.Errorf("find product %s: %w", req.ProductID, err)
		}
		if p != nil {
			found = true
			line.ProductID = p.ID
			line.ProductName = p.Name
			if p.ImageURL != "" {
				line.ImageURL = p.ImageURL
			}
			unit, minQty, defaultQty = p.Unit, p.MinQty, p.DefaultQuantity()
		}
	}

	if !found {
		index := s.calc.Index()
		if key, ok := index.FindKey(ingredient.Normalize(req.ProductName)); ok {
			info, _ := index.Get(key)
			found = true
			unit, minQty, defaultQty = info.Unit, info.MinQty, info.DefaultQty

			p, err := s.catalog.FindByCanonicalName(ctx, key)
			if err != nil {
				return Line{}, fmt.Errorf("find product %s: %w", key, err)
			}
			if p != nil {
				line.ProductID = p.ID
				line.ProductName = p.Name
				if p.ImageURL != "" {
					line.ImageURL = p.ImageURL
				}
			}
		}
	}

	if !found {
		p, err := s.catalog.FindByCanonicalName(ctx, ingredient.Normalize(req.ProductName))
		if err != nil {
			return Line{}, fmt.Errorf("find product %s: %w", req.ProductName, err)
		}
		if p != nil {
			found = true
			line.ProductID = p.ID
			line.ProductName = p.Name
			if p.ImageURL != "" {
				line.ImageURL = p.ImageURL
			}
			unit, minQty, defaultQty = p.Unit, p.MinQty, p.DefaultQuantity()
		}
	}

	if !found {
		return Line{}, common.ErrProductNotFound.Wrap(fmt.Errorf("no product information for %q", req.ProductName))
	}

	if unit == "" {
		unit = quantity.DefaultUnit
	}
	if defaultQty == "" {
		defaultQty = quantity.Format(minQty, unit)
	}

	line.Unit = unit
	line.MinQty = minQty
	line.Quantity = quantity.Validate(req.Quantity, defaultQty, minQty, unit)
	line.Price = s.calc.Price(ctx, line.ProductName, line.Quantity)
	return line, nil
}

// UpdateQuantity 設定項目數量（以項目單位計）；0 代表移除
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, lineID string, amount float64) (c *Cart, err error) {
	defer func() { metrics.RecordCartOperation("update", err) }()

	if amount < 0 {
		return nil, common.NewValidationError("quantity must not be negative")
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err = s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	i := c.indexOf(lineID)
	if i < 0 {
		return nil, common.ErrCartItemNotFound
	}

	if amount == 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return c, s.save(ctx, c)
	}

	line := &c.Lines[i]
	if amount < line.MinQty {
		return nil, common.ErrBelowMinimum.Wrap(fmt.Errorf("minimum quantity for %s is %s", line.ProductName, quantity.Format(line.MinQty, line.Unit)))
	}

	line.Quantity = quantity.Format(amount, line.Unit)
	line.Price = s.calc.Price(ctx, line.ProductName, line.Quantity)
	return c, s.save(ctx, c)
}

// Remove 移除項目
func (s *Service) Remove(ctx context.Context, sessionID, lineID string) (c *Cart, err error) {
	defer func() { metrics.RecordCartOperation("remove", err) }()

	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err = s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	i := c.indexOf(lineID)
	if i < 0 {
		return nil, common.ErrCartItemNotFound
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return c, s.save(ctx, c)
}

// Clear 清空購物車
func (s *Service) Clear(ctx context.Context, sessionID string) (err error) {
	defer func() { metrics.RecordCartOperation("clear", err) }()

	unlock := s.locks.lock(sessionID)
	defer unlock()

	return s.store.Delete(ctx, sessionID)
}

// Checkout 在 session 鎖內讀取購物車並交給 fn，fn 成功後清空購物車；
// 購物車為空時回傳 ErrEmptyCart，fn 失敗時購物車保持不變
func (s *Service) Checkout(ctx context.Context, sessionID string, fn func(c *Cart) error) (err error) {
	defer func() { metrics.RecordCartOperation("checkout", err) }()

	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(c.Lines) == 0 {
		return common.ErrEmptyCart
	}
	if err = fn(c.Clone()); err != nil {
		return err
	}

	if delErr := s.store.Delete(ctx, sessionID); delErr != nil {
		common.LogWarn("結帳後清空購物車失敗",
			zap.String("session_id", sessionID),
			zap.Error(delErr),
		)
	}
	return nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = s.now()
	if err := s.store.Save(ctx, c); err != nil {
		return fmt.Errorf("save cart %s: %w", c.SessionID, err)
	}
	return nil
}

// sessionLocks 以 session 為鍵的互斥鎖，無人使用時釋放
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sessionLock)
	}
	sl, ok := l.locks[sessionID]
	if !ok {
		sl = &sessionLock{}
		l.locks[sessionID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
