package pricing

import (
	"strings"

	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/core/ingredient"
)

// ProductInfo 常用商品的單位、單價與最低訂購量
type ProductInfo struct {
	Key          string  `json:"key"`
	DefaultQty   string  `json:"default_qty"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"price_per_unit"`
	MinQty       float64 `json:"min_qty"`
	Category     string  `json:"category,omitempty"`
}

// InfoIndex 以標準名稱為鍵的唯讀商品資訊索引，保留建立時的順序
type InfoIndex struct {
	order    []string
	entries  map[string]ProductInfo
	synonyms *ingredient.SynonymTable
}

// NewInfoIndex 創建商品資訊索引
func NewInfoIndex(infos []ProductInfo, synonyms *ingredient.SynonymTable) *InfoIndex {
	idx := &InfoIndex{
		entries:  make(map[string]ProductInfo, len(infos)),
		synonyms: synonyms,
	}
	for _, info := range infos {
		if _, exists := idx.entries[info.Key]; !exists {
			idx.order = append(idx.order, info.Key)
		}
		idx.entries[info.Key] = info
	}
	return idx
}

// DefaultProductInfo 內建商品資訊
func DefaultProductInfo() []ProductInfo {
	return []ProductInfo{
		{Key: "tomato", DefaultQty: "500 gm", Unit: catalog.UnitGram, PricePerUnit: 0.002, MinQty: 500, Category: "produce"},
		{Key: "onion", DefaultQty: "250 gm", Unit: catalog.UnitGram, PricePerUnit: 0.0015, MinQty: 250, Category: "produce"},
		{Key: "potato", DefaultQty: "1 kg", Unit: catalog.UnitKilo, PricePerUnit: 1.2, MinQty: 1, Category: "produce"},
		{Key: "carrot", DefaultQty: "500 gm", Unit: catalog.UnitGram, PricePerUnit: 0.0018, MinQty: 500, Category: "produce"},
		{Key: "flour", DefaultQty: "1 kg", Unit: catalog.UnitKilo, PricePerUnit: 0.8, MinQty: 1, Category: "pantry"},
		{Key: "rice", DefaultQty: "1 kg", Unit: catalog.UnitKilo, PricePerUnit: 1.5, MinQty: 1, Category: "pantry"},
		{Key: "milk", DefaultQty: "1 liter", Unit: catalog.UnitLiter, PricePerUnit: 1.2, MinQty: 1, Category: "dairy"},
		{Key: "egg", DefaultQty: "12 unit", Unit: catalog.UnitCount, PricePerUnit: 0.25, MinQty: 6, Category: "dairy"},
	}
}

// Get 依鍵取得商品資訊
func (idx *InfoIndex) Get(key string) (ProductInfo, bool) {
	info, ok := idx.entries[key]
	return info, ok
}

// FindKey 為已正規化的名稱找出索引鍵：直接命中 -> 同義詞 -> 互相包含
func (idx *InfoIndex) FindKey(normalized string) (string, bool) {
	if normalized == "" {
		return "", false
	}
	if _, ok := idx.entries[normalized]; ok {
		return normalized, true
	}
	if key, ok := idx.synonyms.Resolve(normalized); ok {
		if _, indexed := idx.entries[key]; indexed {
			return key, true
		}
	}
	for _, key := range idx.order {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return key, true
		}
	}
	return "", false
}

// Products 將索引轉為目錄商品，供未接資料庫時當作預設目錄
func (idx *InfoIndex) Products() []catalog.Product {
	out := make([]catalog.Product, 0, len(idx.order))
	for _, key := range idx.order {
		info := idx.entries[key]
		out = append(out, catalog.Product{
			ID:             "seed-" + key,
			Name:           strings.ToUpper(key[:1]) + key[1:],
			NormalizedName: key,
			Category:       info.Category,
			Tags:           []string{key},
			Unit:           info.Unit,
			PricePerUnit:   info.PricePerUnit,
			MinQty:         info.MinQty,
			DefaultQty:     info.DefaultQty,
		})
	}
	return out
}
