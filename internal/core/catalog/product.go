// Package catalog 定義商品目錄與其查詢介面
package catalog

import (
	"context"
	"strconv"
)

// 商品單位
const (
	UnitGram  = "gm"
	UnitKilo  = "kg"
	UnitMl    = "ml"
	UnitLiter = "liter"
	UnitBunch = "bunch"
	UnitCount = "unit"
)

// Product 目錄商品
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	NormalizedName string   `json:"name_normalized"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	Unit           string   `json:"unit"`
	PricePerUnit   float64  `json:"price_per_unit"`
	MinQty         float64  `json:"min_qty"`
	DefaultQty     string   `json:"default_qty,omitempty"`
}

// DefaultQuantity 回傳預設數量，未設定時為 "<min> <unit>"
func (p *Product) DefaultQuantity() string {
	if p.DefaultQty != "" {
		return p.DefaultQty
	}
	unit := p.Unit
	if unit == "" {
		unit = UnitCount
	}
	return strconv.FormatFloat(p.MinQty, 'f', -1, 64) + " " + unit
}

// Catalog 商品目錄查詢介面，找不到時回傳 (nil, nil)
type Catalog interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByCanonicalName(ctx context.Context, name string) (*Product, error)
	// FindBySubstring 以不分大小寫的方式找出顯示名稱包含 name 的第一個商品
	FindBySubstring(ctx context.Context, name string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
}

// SearchQuery 商品搜尋條件
type SearchQuery struct {
	Text     string
	Category string
	Limit    int
}

// Searcher 商品搜尋介面
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) ([]Product, error)
}

// DefaultSearchLimit 搜尋結果預設上限
const DefaultSearchLimit = 20

// RelatedLimit 商品詳情附帶的同分類商品上限
const RelatedLimit = 4

// Browser 分類瀏覽介面
type Browser interface {
	// Categories 回傳不重複、非空且排序後的分類
	Categories(ctx context.Context) ([]string, error)
	// Related 同分類商品，排除 excludeID，依名稱排序
	Related(ctx context.Context, category, excludeID string, limit int) ([]Product, error)
}

// Store 商品 API 需要的完整目錄能力
type Store interface {
	Catalog
	Searcher
	Browser
}
