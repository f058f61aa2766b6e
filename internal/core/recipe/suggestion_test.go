package recipe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySuggestionLog(t *testing.T) {
	t.Parallel()

	log := NewMemorySuggestionLog()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, log.Record(ctx, Suggestion{IngredientName: "za'atar", Status: SuggestionStatusUnmatched}))
		}()
	}
	wg.Wait()

	got, err := log.List(ctx, SuggestionStatusUnmatched, 0)
	require.NoError(t, err)
	require.Len(t, got, 10)

	got[0].IngredientName = "changed"
	again, err := log.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "za'atar", again[0].IngredientName)
}

func TestMemorySuggestionLog_ListNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := NewMemorySuggestionLog()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"sumac", "epazote", "galangal", "asafoetida"} {
		status := SuggestionStatusUnmatched
		if name == "galangal" {
			status = "added"
		}
		require.NoError(t, log.Record(ctx, Suggestion{
			IngredientName: name,
			Status:         status,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	names := func(ss []Suggestion) []string {
		out := make([]string, 0, len(ss))
		for _, s := range ss {
			out = append(out, s.IngredientName)
		}
		return out
	}

	tests := []struct {
		name   string
		status string
		limit  int
		want   []string
	}{
		{name: "unmatched only", status: SuggestionStatusUnmatched, want: []string{"asafoetida", "epazote", "sumac"}},
		{name: "all statuses", status: "", want: []string{"asafoetida", "galangal", "epazote", "sumac"}},
		{name: "limited", status: SuggestionStatusUnmatched, limit: 2, want: []string{"asafoetida", "epazote"}},
		{name: "no match", status: "rejected", want: []string{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := log.List(ctx, tc.status, tc.limit)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(got))
		})
	}
}
