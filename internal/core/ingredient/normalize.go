// Package ingredient 負責食材名稱正規化、同義詞與商品比對
package ingredient

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	modifierPattern    = regexp.MustCompile(`\b(fresh|dried|frozen|canned|whole|sliced|diced|chopped|minced)\b`)
	measurementPattern = regexp.MustCompile(`\d+(\.\d+)?\s*(oz|ounce|lb|pound|g|gram|kg|cup|tbsp|tsp|tablespoon|teaspoon)`)
	spacePattern       = regexp.MustCompile(`\s+`)

	// 複數規則依序套用，只作用在字串結尾
	pluralRules = []struct {
		pattern *regexp.Regexp
		repl    string
	}{
		{regexp.MustCompile(`(\w+)ies$`), "${1}y"},
		{regexp.MustCompile(`(\w+)oes$`), "${1}o"},
		{regexp.MustCompile(`(\w+[^s])s$`), "${1}"},
	}
)

// Normalize 將食材或商品名稱轉為比對用的標準名稱
//
// 重複套用直到結果不再變化，因此 Normalize(Normalize(x)) == Normalize(x)。
// 單數化規則會把以 "s" 結尾的單數名詞（如 hummus）誤判為複數。
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	out := foldAccents(text)
	for {
		next := normalizeOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

func normalizeOnce(name string) string {
	name = strings.ToLower(name)
	name = modifierPattern.ReplaceAllString(name, "")
	name = measurementPattern.ReplaceAllString(name, "")
	name = strings.TrimSpace(spacePattern.ReplaceAllString(name, " "))
	for _, rule := range pluralRules {
		name = rule.pattern.ReplaceAllString(name, rule.repl)
	}
	return name
}

// foldAccents 去除變音符號（jalapeño -> jalapeno）
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
