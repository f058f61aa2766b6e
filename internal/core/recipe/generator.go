// Package recipe 透過 AI 產生菜餚食材並對應到商品目錄
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"recipe-cart/internal/core/ai/service"
	"recipe-cart/internal/pkg/common"

	"go.uber.org/zap"
)

// 份量限制
const (
	MinServings = 1
	MaxServings = 20
)

// Request 食材產生請求
type Request struct {
	DishName           string   `json:"dish_name" binding:"required"`
	Servings           int      `json:"servings" binding:"required"`
	DietaryPreferences []string `json:"dietary_preferences,omitempty"`
}

// Validate 驗證請求內容
func (r *Request) Validate() error {
	r.DishName = strings.TrimSpace(r.DishName)
	if r.DishName == "" {
		return common.NewValidationError("Please enter a dish name.")
	}
	if r.Servings < MinServings || r.Servings > MaxServings {
		return common.NewValidationError(fmt.Sprintf("Please enter a number of servings between %d and %d", MinServings, MaxServings))
	}
	for _, pref := range r.DietaryPreferences {
		if !common.IsDietaryOption(pref) {
			return common.NewValidationError(fmt.Sprintf("unsupported dietary preference %q", pref))
		}
	}
	return nil
}

// IngredientSource 食材來源
type IngredientSource interface {
	ScaledIngredients(ctx context.Context, req Request) ([]common.Ingredient, error)
}

// Generator 以 AI 服務產生指定份量的食材清單
type Generator struct {
	aiService *service.Service
}

// NewGenerator 創建食材產生器
func NewGenerator(aiService *service.Service) *Generator {
	return &Generator{aiService: aiService}
}

// ScaledIngredients 產生食材清單；回應不是 JSON 陣列時回傳 ErrInvalidAIResponse
func (g *Generator) ScaledIngredients(ctx context.Context, req Request) ([]common.Ingredient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := g.aiService.ProcessRequest(ctx, BuildPrompt(req))
	if err != nil {
		return nil, err
	}

	ingredients, err := ParseIngredients(resp.Content)
	if err != nil {
		common.LogError("AI 回應解析失敗",
			zap.String("dish", req.DishName),
			zap.Error(err),
		)
		return nil, err
	}

	common.LogInfo("食材清單已產生",
		zap.String("dish", req.DishName),
		zap.Int("servings", req.Servings),
		zap.Int("ingredients_count", len(ingredients)),
		zap.Bool("cache_hit", resp.CacheHit),
	)
	return ingredients, nil
}

// BuildPrompt 組出要求 JSON 陣列回應的提示
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I need the ingredients for %s scaled for %d servings.", req.DishName, req.Servings)
	if len(req.DietaryPreferences) > 0 {
		fmt.Fprintf(&b, " The recipe must follow these dietary restrictions: %s. Please provide suitable alternatives for any restricted ingredients.",
			strings.Join(req.DietaryPreferences, ", "))
	}
	b.WriteString(`
Format as a JSON array of objects, each with 'name' and 'quantity' properties.
Don't include instructions or additional explanation.
Example format:
[
  {"name": "tomatoes", "quantity": "2 medium"},
  {"name": "olive oil", "quantity": "3 tbsp"}
]`)
	return b.String()
}

type rawIngredient struct {
	Name     string      `json:"name"`
	Quantity interface{} `json:"quantity"`
}

// ParseIngredients 擷取第一個 '[' 到最後一個 ']' 並解析為食材清單
func ParseIngredients(content string) ([]common.Ingredient, error) {
	raw, ok := common.ExtractJSONArray(content)
	if !ok {
		return nil, common.ErrInvalidAIResponse.Wrap(fmt.Errorf("no JSON array in response"))
	}

	var items []rawIngredient
	if err := common.ParseJSON(raw, &items); err != nil {
		// 模型偶爾會回傳未加引號的鍵
		if err2 := common.ParseJSON(common.QuoteJSONKeys(raw), &items); err2 != nil {
			return nil, common.ErrInvalidAIResponse.Wrap(fmt.Errorf("parse ingredients: %w", err))
		}
	}

	out := make([]common.Ingredient, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		out = append(out, common.Ingredient{Name: name, Quantity: quantityText(it.Quantity)})
	}
	return out, nil
}

func quantityText(v interface{}) string {
	switch q := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(q)
	case json.Number:
		return q.String()
	default:
		return fmt.Sprint(q)
	}
}
