// Package quantity 解析、換算與驗證自由格式的數量文字
package quantity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultUnit 未指定單位時使用的通用單位
const DefaultUnit = "unit"

var quantityPattern = regexp.MustCompile(`^([\d.]+)?\s*([a-zA-Z]*)`)

// Quantity 數值與單位
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// String 以 "<amount> <unit>" 格式輸出
func (q Quantity) String() string {
	return Format(q.Amount, q.Unit)
}

// Parse 寬鬆解析，任何無法解析的內容都退回 (1, "unit")
func Parse(text string) Quantity {
	q, err := ParseStrict(text)
	if err != nil {
		return Quantity{Amount: 1, Unit: DefaultUnit}
	}
	return q
}

// ParseStrict 與 Parse 相同，但數字部分無法轉換時（如 "1.2.3"）回傳錯誤
func ParseStrict(text string) (Quantity, error) {
	q := Quantity{Amount: 1, Unit: DefaultUnit}
	m := quantityPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return q, nil
	}
	if m[1] != "" {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return q, fmt.Errorf("parse amount %q: %w", m[1], err)
		}
		q.Amount = amount
	}
	if unit := strings.ToLower(m[2]); unit != "" {
		q.Unit = unit
	}
	return q, nil
}

// Format 以最短小數表示輸出 "<amount> <unit>"
func Format(amount float64, unit string) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + " " + unit
}
