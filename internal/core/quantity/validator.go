package quantity

// Validate 以商品單位與最低訂購量檢查需求數量
//
//   - 需求為空：回傳 defaultQty
//   - 單位不相容或解析失敗：回傳 defaultQty
//   - 換算後 >= minQty：原樣回傳需求文字（保留使用者原本的單位）
//   - 換算後 < minQty：回傳 "<minQty> <targetUnit>"
func Validate(requested, defaultQty string, minQty float64, targetUnit string) string {
	if requested == "" {
		return defaultQty
	}

	q, err := ParseStrict(requested)
	if err != nil {
		return defaultQty
	}
	if !Compatible(q.Unit, targetUnit) {
		return defaultQty
	}

	converted, err := Convert(q.Amount, q.Unit, targetUnit)
	if err != nil {
		return defaultQty
	}
	if converted >= minQty {
		return requested
	}
	return Format(minQty, targetUnit)
}
