package recipe

import (
	"context"
	"fmt"
	"time"

	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/core/ingredient"
	"recipe-cart/internal/core/pricing"
	"recipe-cart/internal/pkg/common"
	"recipe-cart/internal/pkg/metrics"

	"go.uber.org/zap"
)

// PlannedItem 已對應到商品的食材
type PlannedItem struct {
	Ingredient common.Ingredient   `json:"ingredient"`
	Product    *catalog.Product    `json:"product"`
	Strategy   ingredient.Strategy `json:"strategy"`
	Price      float64             `json:"price"`
}

// Plan 一道菜的購物規劃
type Plan struct {
	Dish      string        `json:"dish"`
	Servings  int           `json:"servings"`
	Matched   []PlannedItem `json:"matched"`
	Unmatched []Suggestion  `json:"unmatched"`
	Total     float64       `json:"total"`
}

// Planner 串接食材產生、商品比對與計價
type Planner struct {
	source   IngredientSource
	matcher  *ingredient.Matcher
	calc     *pricing.Calculator
	catalog  catalog.Catalog
	recorder SuggestionRecorder
	now      func() time.Time
}

// NewPlanner 創建規劃器，recorder 可為 nil
func NewPlanner(source IngredientSource, matcher *ingredient.Matcher, calc *pricing.Calculator, c catalog.Catalog, recorder SuggestionRecorder) *Planner {
	return &Planner{
		source:   source,
		matcher:  matcher,
		calc:     calc,
		catalog:  c,
		recorder: recorder,
		now:      time.Now,
	}
}

// Plan 產生食材後逐一比對與計價；食材來源失敗時不做任何比對
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ingredients, err := p.source.ScaledIngredients(ctx, req)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Dish:      req.DishName,
		Servings:  req.Servings,
		Matched:   make([]PlannedItem, 0, len(ingredients)),
		Unmatched: []Suggestion{},
	}

	var products []catalog.Product
	for _, ing := range ingredients {
		result, err := p.matcher.Match(ctx, ing.Name)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", ing.Name, err)
		}

		if !result.Matched {
			if products == nil {
				if products, err = p.catalog.List(ctx); err != nil {
					return nil, fmt.Errorf("list catalog: %w", err)
				}
			}
			s := Suggestion{
				IngredientName: ing.Name,
				NormalizedName: result.NormalizedName,
				Quantity:       ing.Quantity,
				Dish:           req.DishName,
				Status:         SuggestionStatusUnmatched,
				Closest:        closestName(result.NormalizedName, products),
				CreatedAt:      p.now(),
			}
			common.LogWarn("Unmatched ingredient",
				zap.String("ingredient", s.IngredientName),
				zap.String("normalized", s.NormalizedName),
				zap.String("dish", s.Dish),
				zap.String("closest", s.Closest),
			)
			metrics.UnmatchedIngredients.Inc()
			if p.recorder != nil {
				if err := p.recorder.Record(ctx, s); err != nil {
					common.LogWarn("Failed to record suggestion", zap.String("ingredient", ing.Name), zap.Error(err))
				}
			}
			plan.Unmatched = append(plan.Unmatched, s)
			continue
		}

		price := p.calc.Price(ctx, result.Product.Name, ing.Quantity)
		plan.Matched = append(plan.Matched, PlannedItem{
			Ingredient: ing,
			Product:    result.Product,
			Strategy:   result.Strategy,
			Price:      price,
		})
		plan.Total += price
	}
	plan.Total = pricing.Round2(plan.Total)

	common.LogInfo("Recipe plan built",
		zap.String("dish", req.DishName),
		zap.Int("matched", len(plan.Matched)),
		zap.Int("unmatched", len(plan.Unmatched)),
	)
	return plan, nil
}
