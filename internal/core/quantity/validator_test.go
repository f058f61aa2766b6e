package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		requested  string
		defaultQty string
		minQty     float64
		unit       string
		want       string
	}{
		{name: "incompatible unit falls back to default", requested: "2 cup", defaultQty: "500 gm", minQty: 500, unit: "gm", want: "500 gm"},
		{name: "below minimum is raised", requested: "100 gm", defaultQty: "500 gm", minQty: 500, unit: "gm", want: "500 gm"},
		{name: "sufficient quantity passes through", requested: "800 gm", defaultQty: "500 gm", minQty: 500, unit: "gm", want: "800 gm"},
		{name: "empty request uses default", requested: "", defaultQty: "250 gm", minQty: 250, unit: "gm", want: "250 gm"},
		{name: "convertible unit keeps original text", requested: "1 kg", defaultQty: "500 gm", minQty: 500, unit: "gm", want: "1 kg"},
		{name: "convertible unit below minimum", requested: "0.2 kg", defaultQty: "500 gm", minQty: 500, unit: "gm", want: "500 gm"},
		{name: "volume conversion", requested: "500 ml", defaultQty: "1 liter", minQty: 1, unit: "liter", want: "1 liter"},
		{name: "exactly minimum", requested: "500 gm", defaultQty: "1 kg", minQty: 500, unit: "gm", want: "500 gm"},
		{name: "bare number is unit", requested: "3", defaultQty: "12 unit", minQty: 6, unit: "unit", want: "6 unit"},
		{name: "bare number above minimum", requested: "8", defaultQty: "12 unit", minQty: 6, unit: "unit", want: "8"},
		{name: "malformed number uses default", requested: "1.2.3 gm", defaultQty: "500 gm", minQty: 500, unit: "gm", want: "500 gm"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Validate(tc.requested, tc.defaultQty, tc.minQty, tc.unit))
		})
	}
}
