package recipe

import (
	"fmt"

	"pantrify/internal/pkg/common"
)

const (
	summaryLimit   = 6
	allAvailable   = "All ingredients available."
	badgeReady     = "Ready to Cook"
	summaryEllipse = " …"
)

// PantryKeys 食材庫存的標準鍵集合
type PantryKeys map[string]struct{}

// NewPantryKeys 由標準鍵建立集合
func NewPantryKeys(keys []string) PantryKeys {
	set := make(PantryKeys, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Has 是否擁有此食材
func (p PantryKeys) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Score 食譜相對於庫存的就緒程度
type Score struct {
	Ready bool `json:"ready"`
	Have  int  `json:"have"`
	Total int  `json:"total"`
}

// ScoreKeys 計算擁有的食材數，重複的鍵分別計算；沒有食材的食譜視為就緒
func ScoreKeys(keys []string, pantry PantryKeys) Score {
	have := 0
	for _, k := range keys {
		if pantry.Has(k) {
			have++
		}
	}
	return Score{Ready: have == len(keys), Have: have, Total: len(keys)}
}

// Readiness 就緒程度與顯示用的衍生資訊
type Readiness struct {
	Score
	MissingCount   int      `json:"missing_count"`
	MissingDisplay []string `json:"missing_display"`
	Summary        string   `json:"summary"`
	Badge          string   `json:"badge"`
}

// Evaluate 計算就緒程度，displays 與 keys 索引對應
func Evaluate(keys, displays []string, pantry PantryKeys) Readiness {
	score := ScoreKeys(keys, pantry)

	missing := make([]string, 0, score.Total-score.Have)
	for i, k := range keys {
		if pantry.Has(k) {
			continue
		}
		if i < len(displays) {
			missing = append(missing, displays[i])
		} else {
			missing = append(missing, k)
		}
	}

	return Readiness{
		Score:          score,
		MissingCount:   score.Total - score.Have,
		MissingDisplay: missing,
		Summary:        missingSummary(missing),
		Badge:          badge(len(missing)),
	}
}

// missingSummary 最多列出前 6 項缺少的食材
func missingSummary(missing []string) string {
	if len(missing) == 0 {
		return allAvailable
	}
	shown := missing
	if len(shown) > summaryLimit {
		shown = shown[:summaryLimit]
	}
	summary := "Missing " + common.JoinWithAnd(shown)
	if len(missing) > summaryLimit {
		summary += summaryEllipse
	}
	return summary
}

func badge(missing int) string {
	if missing == 0 {
		return badgeReady
	}
	return fmt.Sprintf("Missing %d", missing)
}
