package ingredient

import (
	"context"
	"fmt"

	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/pkg/common"
	"recipe-cart/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Strategy 比對成功時使用的策略
type Strategy string

const (
	StrategyExact   Strategy = "exact"
	StrategySynonym Strategy = "synonym"
	StrategyFuzzy   Strategy = "fuzzy"
	StrategyNone    Strategy = "none"
)

// MatchResult 比對結果；Matched 為 false 表示找不到商品，並非錯誤
type MatchResult struct {
	IngredientName string           `json:"ingredient_name"`
	NormalizedName string           `json:"normalized_name"`
	Product        *catalog.Product `json:"product,omitempty"`
	Strategy       Strategy         `json:"strategy"`
	Matched        bool             `json:"matched"`
}

// Matcher 將食材名稱解析為目錄商品
type Matcher struct {
	catalog  catalog.Catalog
	synonyms *SynonymTable
}

// NewMatcher 創建商品比對器
func NewMatcher(c catalog.Catalog, synonyms *SynonymTable) *Matcher {
	return &Matcher{catalog: c, synonyms: synonyms}
}

// Match 依序嘗試：標準名稱精確比對 -> 同義詞 -> 顯示名稱子字串
//
// 只有目錄查詢失敗才會回傳錯誤。
func (m *Matcher) Match(ctx context.Context, ingredientName string) (MatchResult, error) {
	normalized := Normalize(ingredientName)
	result := MatchResult{
		IngredientName: ingredientName,
		NormalizedName: normalized,
		Strategy:       StrategyNone,
	}
	if normalized == "" {
		metrics.RecordMatch(string(StrategyNone))
		return result, nil
	}

	product, err := m.catalog.FindByCanonicalName(ctx, normalized)
	if err != nil {
		return result, fmt.Errorf("exact lookup %q: %w", normalized, err)
	}
	if product != nil {
		return m.found(result, product, StrategyExact), nil
	}

	if key, ok := m.synonyms.Resolve(normalized); ok {
		product, err = m.catalog.FindByCanonicalName(ctx, key)
		if err != nil {
			return result, fmt.Errorf("synonym lookup %q: %w", key, err)
		}
		if product != nil {
			return m.found(result, product, StrategySynonym), nil
		}
	}

	product, err = m.catalog.FindBySubstring(ctx, normalized)
	if err != nil {
		return result, fmt.Errorf("substring lookup %q: %w", normalized, err)
	}
	if product != nil {
		return m.found(result, product, StrategyFuzzy), nil
	}

	common.LogDebug("No product match",
		zap.String("ingredient", ingredientName),
		zap.String("normalized", normalized),
	)
	metrics.RecordMatch(string(StrategyNone))
	return result, nil
}

func (m *Matcher) found(result MatchResult, product *catalog.Product, strategy Strategy) MatchResult {
	result.Product = product
	result.Strategy = strategy
	result.Matched = true
	common.LogDebug("Product matched",
		zap.String("ingredient", result.IngredientName),
		zap.String("normalized", result.NormalizedName),
		zap.String("product", product.Name),
		zap.String("strategy", string(strategy)),
	)
	metrics.RecordMatch(string(strategy))
	return result
}
