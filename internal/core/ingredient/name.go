package ingredient

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// synonyms 同義詞表，左側為清理後的小寫名稱
var synonyms = map[string]string{
	"scallion":          "green onion",
	"spring onion":      "green onion",
	"cilantro":          "coriander",
	"caster sugar":      "sugar",
	"powdered sugar":    "confectioners sugar",
	"icing sugar":       "confectioners sugar",
	"all purpose flour": "flour",
	"all-purpose flour": "flour",
	"ap flour":          "flour",
	"kosher salt":       "salt",
	"sea salt":          "salt",
	"soya sauce":        "soy sauce",
	"bell pepper":       "capsicum",
	"ground beef":       "minced beef",
}

// NormalizeName 將原始食材名稱轉為顯示名稱與比對用的標準鍵
//
// 流程：轉小寫、合併連續空白、去除首尾空白、套用同義詞表，
// 結果即為 key；display 為 key 每個詞首字母大寫。
func NormalizeName(raw string) (display, key string) {
	cleaned := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	key = cleaned
	if mapped, ok := synonyms[cleaned]; ok {
		key = mapped
	}
	return titleCase(key), key
}

// Key 只取標準鍵
func Key(raw string) string {
	_, key := NormalizeName(raw)
	return key
}

// Normalize 批次正規化，回傳等長且索引對應的 display 與 key
func Normalize(raws []string) (displays, keys []string) {
	displays = make([]string, len(raws))
	keys = make([]string, len(raws))
	for i, raw := range raws {
		displays[i], keys[i] = NormalizeName(raw)
	}
	return displays, keys
}

// titleCase 每個以空白分隔的詞首字母大寫，其餘保持不變
func titleCase(phrase string) string {
	if phrase == "" {
		return ""
	}
	words := strings.Split(phrase, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError && size <= 1 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
