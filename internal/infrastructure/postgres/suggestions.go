package postgres

import (
	"context"
	"fmt"

	"recipe-cart/internal/core/recipe"
)

// SuggestionStore 以 suggestions 資料表保存未比對食材
type SuggestionStore struct {
	client *Client
}

// NewSuggestionStore 創建資料庫建議紀錄
func NewSuggestionStore(client *Client) *SuggestionStore {
	return &SuggestionStore{client: client}
}

// Record 寫入一筆建議
func (s *SuggestionStore) Record(ctx context.Context, sg recipe.Suggestion) error {
	_, err := s.client.exec(ctx, `INSERT INTO suggestions
		(ingredient_name, normalized_name, quantity, dish, status, closest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sg.IngredientName, sg.NormalizedName, sg.Quantity, sg.Dish, sg.Status, sg.Closest, sg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert suggestion %q: %w", sg.IngredientName, err)
	}
	return nil
}

// List 依建立時間由新到舊列出建議
func (s *SuggestionStore) List(ctx context.Context, status string, limit int) ([]recipe.Suggestion, error) {
	if limit <= 0 {
		limit = recipe.DefaultSuggestionLimit
	}
	rows, err := s.client.query(ctx, `SELECT ingredient_name, normalized_name, quantity, dish, status, closest, created_at
		FROM suggestions
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	out := []recipe.Suggestion{}
	for rows.Next() {
		var sg recipe.Suggestion
		if err := rows.Scan(&sg.IngredientName, &sg.NormalizedName, &sg.Quantity, &sg.Dish,
			&sg.Status, &sg.Closest, &sg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		out = append(out, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}
	return out, nil
}
