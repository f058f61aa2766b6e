package ingredient

import "sort"

// SynonymTable 標準名稱到別名集合的唯讀對照表
type SynonymTable struct {
	keys    []string
	aliases map[string]map[string]struct{}
}

// NewSynonymTable 以標準名稱 -> 別名列表建立對照表
func NewSynonymTable(entries map[string][]string) *SynonymTable {
	t := &SynonymTable{aliases: make(map[string]map[string]struct{}, len(entries))}
	for key, list := range entries {
		set := make(map[string]struct{}, len(list))
		for _, alias := range list {
			set[alias] = struct{}{}
		}
		t.aliases[key] = set
		t.keys = append(t.keys, key)
	}
	sort.Strings(t.keys)
	return t
}

// DefaultSynonyms 內建同義詞表
func DefaultSynonyms() *SynonymTable {
	return NewSynonymTable(map[string][]string{
		"tomato": {"roma tomato", "cherry tomato", "plum tomato"},
		"onion":  {"red onion", "white onion", "yellow onion", "spring onion", "scallion"},
		"potato": {"russet potato", "yukon gold potato", "red potato", "sweet potato"},
		"pepper": {"bell pepper", "red pepper", "green pepper", "yellow pepper", "chili pepper"},
		"oil":    {"olive oil", "vegetable oil", "canola oil", "cooking oil"},
		"rice":   {"white rice", "brown rice", "jasmine rice", "basmati rice"},
		"flour":  {"all-purpose flour", "bread flour", "cake flour", "wheat flour"},
	})
}

// Resolve 名稱等於某個標準名稱或屬於其別名時回傳該標準名稱
func (t *SynonymTable) Resolve(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, key := range t.keys {
		if name == key {
			return key, true
		}
		if _, ok := t.aliases[key][name]; ok {
			return key, true
		}
	}
	return "", false
}

// Keys 依字母順序回傳所有標準名稱
func (t *SynonymTable) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}
