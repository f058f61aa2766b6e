package recipe

import (
	"strconv"
	"strings"

	"recipe-cart/internal/core/pricing"
	"recipe-cart/internal/pkg/common"
)

// ScaleQuantity 將以 baseServings 為基準的數量換算為 servings 份，
// 開頭數字依比例縮放並四捨五入到小數點後兩位；沒有數字時原樣回傳
func ScaleQuantity(quantityText string, baseServings, servings int) string {
	if baseServings <= 0 || servings <= 0 {
		return quantityText
	}
	text := strings.TrimSpace(quantityText)
	end := 0
	for end < len(text) && (text[end] >= '0' && text[end] <= '9' || text[end] == '.') {
		end++
	}
	if end == 0 {
		return quantityText
	}
	amount, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		return quantityText
	}
	scaled := pricing.Round2(amount * float64(servings) / float64(baseServings))
	return strconv.FormatFloat(scaled, 'f', -1, 64) + text[end:]
}

// ScaleIngredients 依份量換算整份食材清單
func ScaleIngredients(items []common.Ingredient, baseServings, servings int) []common.Ingredient {
	out := make([]common.Ingredient, len(items))
	for i, it := range items {
		out[i] = common.Ingredient{Name: it.Name, Quantity: ScaleQuantity(it.Quantity, baseServings, servings)}
	}
	return out
}
