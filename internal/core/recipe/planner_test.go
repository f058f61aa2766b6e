package recipe

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/core/ingredient"
	"recipe-cart/internal/core/pricing"
	"recipe-cart/internal/pkg/common"

	"recipe-cart/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	items []common.Ingredient
	err   error
	calls int
}

func (s *stubSource) ScaledIngredients(_ context.Context, _ Request) ([]common.Ingredient, error) {
	s.calls++
	return s.items, s.err
}

type failingCatalog struct {
	catalog.Catalog
}

func (failingCatalog) FindByCanonicalName(context.Context, string) (*catalog.Product, error) {
	return nil, errors.New("connection refused")
}

func newTestPlanner(source IngredientSource, recorder SuggestionRecorder) *Planner {
	synonyms := ingredient.DefaultSynonyms()
	index := pricing.NewInfoIndex(pricing.DefaultProductInfo(), synonyms)
	c := catalog.NewMemoryCatalog(index.Products()...)
	p := NewPlanner(source, ingredient.NewMatcher(c, synonyms), pricing.NewCalculator(index, c), c, recorder)
	p.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return p
}

func TestPlanner_Plan(t *testing.T) {
	t.Parallel()

	source := &stubSource{items: []common.Ingredient{
		{Name: "Tomatoes", Quantity: "500 gm"},
		{Name: "Onion", Quantity: "250 gm"},
		{Name: "Carot", Quantity: "2 medium"},
	}}
	log := NewMemorySuggestionLog()
	p := newTestPlanner(source, log)

	plan, err := p.Plan(context.Background(), Request{DishName: "Salsa", Servings: 2})
	require.NoError(t, err)

	assert.Equal(t, "Salsa", plan.Dish)
	assert.Equal(t, 2, plan.Servings)
	require.Len(t, plan.Matched, 2)
	assert.Equal(t, "Tomato", plan.Matched[0].Product.Name)
	assert.Equal(t, ingredient.StrategyExact, plan.Matched[0].Strategy)
	assert.Equal(t, 1.0, plan.Matched[0].Price)
	assert.Equal(t, 0.38, plan.Matched[1].Price)
	assert.Equal(t, 1.38, plan.Total)

	require.Len(t, plan.Unmatched, 1)
	s := plan.Unmatched[0]
	assert.Equal(t, "Carot", s.IngredientName)
	assert.Equal(t, "carot", s.NormalizedName)
	assert.Equal(t, "2 medium", s.Quantity)
	assert.Equal(t, "Salsa", s.Dish)
	assert.Equal(t, SuggestionStatusUnmatched, s.Status)
	assert.Equal(t, "carrot", s.Closest)

	recorded, err := log.List(context.Background(), SuggestionStatusUnmatched, 0)
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{s}, recorded)
}

func TestPlanner_PlanAllMatchedHasEmptyUnmatched(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(&stubSource{items: []common.Ingredient{{Name: "Milk", Quantity: "1 liter"}}}, nil)
	plan, err := p.Plan(context.Background(), Request{DishName: "Latte", Servings: 1})
	require.NoError(t, err)
	assert.NotNil(t, plan.Unmatched)
	assert.Empty(t, plan.Unmatched)
	assert.Equal(t, 1.2, plan.Total)
}

func TestPlanner_PlanCountsUnmatchedWithoutRecorder(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(metrics.UnmatchedIngredients)
	p := newTestPlanner(&stubSource{items: []common.Ingredient{{Name: "Sumac", Quantity: "1 tbsp"}}}, nil)
	plan, err := p.Plan(context.Background(), Request{DishName: "Fattoush", Servings: 2})
	require.NoError(t, err)
	require.Len(t, plan.Unmatched, 1)
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.UnmatchedIngredients)-before, 1.0)
}

func TestPlanner_PlanErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid request", func(t *testing.T) {
		t.Parallel()
		source := &stubSource{}
		_, err := newTestPlanner(source, nil).Plan(context.Background(), Request{DishName: "", Servings: 2})
		assert.True(t, common.IsValidationError(err))
		assert.Zero(t, source.calls)
	})

	t.Run("generation failure", func(t *testing.T) {
		t.Parallel()
		log := NewMemorySuggestionLog()
		source := &stubSource{err: common.ErrInvalidAIResponse}
		_, err := newTestPlanner(source, log).Plan(context.Background(), Request{DishName: "Soup", Servings: 2})
		assert.ErrorIs(t, err, common.ErrInvalidAIResponse)
		recorded, listErr := log.List(context.Background(), "", 0)
		require.NoError(t, listErr)
		assert.Empty(t, recorded)
	})

	t.Run("catalog failure", func(t *testing.T) {
		t.Parallel()
		synonyms := ingredient.DefaultSynonyms()
		index := pricing.NewInfoIndex(pricing.DefaultProductInfo(), synonyms)
		c := failingCatalog{}
		source := &stubSource{items: []common.Ingredient{{Name: "Tomato", Quantity: "1 kg"}}}
		p := NewPlanner(source, ingredient.NewMatcher(c, synonyms), pricing.NewCalculator(index, nil), c, nil)

		_, err := p.Plan(context.Background(), Request{DishName: "Soup", Servings: 2})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestClosestName(t *testing.T) {
	t.Parallel()

	products := []catalog.Product{
		{NormalizedName: "rice"},
		{NormalizedName: ""},
		{NormalizedName: "mice"},
	}
	assert.Equal(t, "rice", closestName("dice", products), "ties go to the earlier entry")
	assert.Equal(t, "", closestName("anything", nil))
}
