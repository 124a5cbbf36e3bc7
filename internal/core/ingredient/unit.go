package ingredient

import "strings"

// UnitType 單位類別（單位家族）
type UnitType string

const (
	UnitGrams  UnitType = "grams"  // 質量：mg / g / kg
	UnitLiters UnitType = "liters" // 體積：ml / L / kL
	UnitPieces UnitType = "pieces" // 計數：pcs
)

// DefaultUnitType 分類失敗時的預設類別
const DefaultUnitType = UnitPieces

// 各單位相對於基準單位的線性係數
var unitFactors = map[UnitType]map[string]float64{
	UnitGrams:  {"mg": 0.001, "g": 1, "kg": 1000},
	UnitLiters: {"ml": 0.001, "L": 1, "kL": 1000},
	UnitPieces: {"pcs": 1},
}

// 各類別可選的子單位，第一個為預設
var subUnitOptions = map[UnitType][]string{
	UnitGrams:  {"mg", "g", "kg"},
	UnitLiters: {"ml", "L", "kL"},
	UnitPieces: {"pcs"},
}

// ParseUnitType 解析單位類別，不分大小寫並忽略前後空白
func ParseUnitType(s string) (UnitType, bool) {
	switch UnitType(strings.ToLower(strings.TrimSpace(s))) {
	case UnitGrams:
		return UnitGrams, true
	case UnitLiters:
		return UnitLiters, true
	case UnitPieces:
		return UnitPieces, true
	}
	return "", false
}

// Valid 是否為已知類別
func (u UnitType) Valid() bool {
	_, ok := unitFactors[u]
	return ok
}

// SubUnits 取得類別的子單位清單，未知類別回傳 pcs
func (u UnitType) SubUnits() []string {
	opts, ok := subUnitOptions[u]
	if !ok {
		opts = subUnitOptions[UnitPieces]
	}
	return append([]string(nil), opts...)
}

// DefaultSubUnit 類別的預設子單位
func (u UnitType) DefaultSubUnit() string {
	return u.SubUnits()[0]
}

// HasSubUnit 子單位是否屬於此類別
func (u UnitType) HasSubUnit(subUnit string) bool {
	_, ok := unitFactors[u][subUnit]
	return ok
}

// AllUnitOptions 所有類別與子單位
func AllUnitOptions() map[UnitType][]string {
	out := make(map[UnitType][]string, len(subUnitOptions))
	for k, v := range subUnitOptions {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Convert 在同一類別內轉換數量：quantity * factor[from] / factor[to]
//
// 未知類別或子單位不在類別內時原值返回；尚未判定類別時介面層依賴此行為。
// 不做範圍限制。
func Convert(quantity float64, from, to string, family UnitType) float64 {
	factors, ok := unitFactors[family]
	if !ok {
		return quantity
	}
	fromFactor, okFrom := factors[from]
	toFactor, okTo := factors[to]
	if !okFrom || !okTo {
		return quantity
	}
	return quantity * fromFactor / toFactor
}
