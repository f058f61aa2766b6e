package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	c, err := s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "missing", c.SessionID)
	assert.Empty(t, c.Lines)

	c.Lines = append(c.Lines, Line{ID: "l1", ProductName: "Tomato", Quantity: "500 gm", Price: 1})
	require.NoError(t, s.Save(ctx, c))

	// 儲存的是副本
	c.Lines[0].Quantity = "changed"
	loaded, err := s.Load(ctx, "missing")
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, "500 gm", loaded.Lines[0].Quantity)

	require.NoError(t, s.Delete(ctx, "missing"))
	loaded, err = s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, loaded.Lines)
}

func TestCart_Total(t *testing.T) {
	t.Parallel()

	c := &Cart{Lines: []Line{{Price: 0.1}, {Price: 0.2}, {Price: 1.005}}}
	assert.InDelta(t, 1.31, c.Total(), 1e-9)
	assert.Equal(t, 0.0, (&Cart{}).Total())
}
