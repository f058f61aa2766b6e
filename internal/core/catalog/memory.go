package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryCatalog 記憶體商品目錄，依標準名稱排序以確保比對結果可重現
type MemoryCatalog struct {
	mu       sync.RWMutex
	products []Product
}

// NewMemoryCatalog 創建記憶體商品目錄
func NewMemoryCatalog(products ...Product) *MemoryCatalog {
	c := &MemoryCatalog{}
	for _, p := range products {
		c.put(p)
	}
	return c
}

// Upsert 新增或取代同 ID 商品
func (c *MemoryCatalog) Upsert(p Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(p)
}

func (c *MemoryCatalog) put(p Product) {
	for i := range c.products {
		if c.products[i].ID == p.ID {
			c.products[i] = p
			c.sortLocked()
			return
		}
	}
	c.products = append(c.products, p)
	c.sortLocked()
}

func (c *MemoryCatalog) sortLocked() {
	sort.SliceStable(c.products, func(i, j int) bool {
		if c.products[i].NormalizedName != c.products[j].NormalizedName {
			return c.products[i].NormalizedName < c.products[j].NormalizedName
		}
		return c.products[i].ID < c.products[j].ID
	})
}

// FindByID 依 ID 查詢
func (c *MemoryCatalog) FindByID(_ context.Context, id string) (*Product, error) {
	return c.first(func(p *Product) bool { return id != "" && p.ID == id }), nil
}

// FindByCanonicalName 依標準名稱查詢
func (c *MemoryCatalog) FindByCanonicalName(_ context.Context, name string) (*Product, error) {
	return c.first(func(p *Product) bool { return p.NormalizedName == name }), nil
}

// FindBySubstring 顯示名稱包含 name（不分大小寫）的第一個商品
func (c *MemoryCatalog) FindBySubstring(_ context.Context, name string) (*Product, error) {
	needle := strings.ToLower(name)
	return c.first(func(p *Product) bool { return strings.Contains(strings.ToLower(p.Name), needle) }), nil
}

// List 列出全部商品
func (c *MemoryCatalog) List(_ context.Context) ([]Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

// Search 名稱、描述、標籤包含關鍵字，並可依分類過濾，結果依名稱排序
func (c *MemoryCatalog) Search(_ context.Context, q SearchQuery) ([]Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))

	var out []Product
	for _, p := range c.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if text != "" && !matchesText(p, text) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Categories 不重複的分類，依字母排序
func (c *MemoryCatalog) Categories(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range c.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

// Related 同分類的其他商品
func (c *MemoryCatalog) Related(_ context.Context, category, excludeID string, limit int) ([]Product, error) {
	out := []Product{}
	if category == "" {
		return out, nil
	}
	if limit <= 0 {
		limit = RelatedLimit
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.Category == category && p.ID != excludeID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matchesText(p Product, text string) bool {
	if strings.Contains(strings.ToLower(p.Name), text) || strings.Contains(strings.ToLower(p.Description), text) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), text) {
			return true
		}
	}
	return false
}

func (c *MemoryCatalog) first(pred func(p *Product) bool) *Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.products {
		if pred(&c.products[i]) {
			p := c.products[i]
			return &p
		}
	}
	return nil
}
