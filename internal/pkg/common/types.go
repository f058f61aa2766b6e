package common

// Ingredient AI 產生的食材（名稱與自由格式數量）
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// DietaryOptions 支援的飲食偏好
var DietaryOptions = []string{
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Dairy-Free",
	"Keto",
	"Paleo",
	"Low-Carb",
	"Nut-Free",
}

// IsDietaryOption 檢查是否為支援的飲食偏好
func IsDietaryOption(option string) bool {
	for _, o := range DietaryOptions {
		if o == option {
			return true
		}
	}
	return false
}
