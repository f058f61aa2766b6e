package recipe

import (
	"context"
	"sync"
	"time"

	"recipe-cart/internal/core/catalog"

	"github.com/agnivade/levenshtein"
)

// SuggestionStatusUnmatched 尚未處理的目錄補充建議
const SuggestionStatusUnmatched = "unmatched"

// Suggestion 找不到對應商品的食材，供目錄維護參考
type Suggestion struct {
	IngredientName string    `json:"ingredient_name"`
	NormalizedName string    `json:"normalized_name"`
	Quantity       string    `json:"quantity"`
	Dish           string    `json:"dish"`
	Status         string    `json:"status"`
	Closest        string    `json:"closest,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DefaultSuggestionLimit 列出建議時的預設筆數
const DefaultSuggestionLimit = 100

// SuggestionRecorder 記錄未比對成功的食材
type SuggestionRecorder interface {
	Record(ctx context.Context, s Suggestion) error
}

// SuggestionStore 可查詢的建議紀錄
type SuggestionStore interface {
	SuggestionRecorder
	// List 依時間由新到舊列出建議；status 為空時不過濾，limit <= 0 時使用預設筆數
	List(ctx context.Context, status string, limit int) ([]Suggestion, error)
}

// MemorySuggestionLog 記憶體內的建議紀錄
type MemorySuggestionLog struct {
	mu          sync.Mutex
	suggestions []Suggestion
}

// NewMemorySuggestionLog 創建建議紀錄
func NewMemorySuggestionLog() *MemorySuggestionLog {
	return &MemorySuggestionLog{}
}

// Record 寫入一筆建議
func (l *MemorySuggestionLog) Record(_ context.Context, s Suggestion) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.suggestions = append(l.suggestions, s)
	return nil
}

// List 由最新一筆往回列出建議
func (l *MemorySuggestionLog) List(_ context.Context, status string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Suggestion, 0, min(limit, len(l.suggestions)))
	for i := len(l.suggestions) - 1; i >= 0 && len(out) < limit; i-- {
		if status != "" && l.suggestions[i].Status != status {
			continue
		}
		out = append(out, l.suggestions[i])
	}
	return out, nil
}

// closestName 以編輯距離找出最接近的標準名稱，距離相同時取目錄順序較前者
func closestName(normalized string, products []catalog.Product) string {
	best := ""
	bestDist := -1
	for _, p := range products {
		if p.NormalizedName == "" {
			continue
		}
		d := levenshtein.ComputeDistance(normalized, p.NormalizedName)
		if bestDist < 0 || d < bestDist {
			best, bestDist = p.NormalizedName, d
		}
	}
	return best
}
