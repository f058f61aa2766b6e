package quantity

import (
	"errors"
	"fmt"
)

// ErrIncompatibleUnits 兩個單位之間沒有定義換算
var ErrIncompatibleUnits = errors.New("incompatible units")

type unitKind int

const (
	kindOther unitKind = iota
	kindMass
	kindVolume
)

// 每個單位相對於同類最小單位的倍率
var unitTable = map[string]struct {
	kind  unitKind
	ratio float64
}{
	"gm":    {kindMass, 1},
	"kg":    {kindMass, 1000},
	"ml":    {kindVolume, 1},
	"liter": {kindVolume, 1000},
}

// Convert 將數量從 from 單位換算為 to 單位
//
// 只支援 gm<->kg 與 ml<->liter，相同單位倍率為 1，其餘組合回傳 ErrIncompatibleUnits。
func Convert(amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	f, okFrom := unitTable[from]
	t, okTo := unitTable[to]
	if !okFrom || !okTo || f.kind != t.kind {
		return 0, fmt.Errorf("%w: %s -> %s", ErrIncompatibleUnits, from, to)
	}
	if f.ratio > t.ratio {
		return amount * (f.ratio / t.ratio), nil
	}
	return amount / (t.ratio / f.ratio), nil
}

// Compatible 驗證數量時的相容判斷：同單位、同為質量、同為容量，或同為 bunch
func Compatible(a, b string) bool {
	if a == b {
		return true
	}
	ka, okA := unitTable[a]
	kb, okB := unitTable[b]
	return okA && okB && ka.kind == kb.kind
}
