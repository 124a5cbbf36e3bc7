package common

import "strings"

// CompactLines 修剪每一行並丟棄空白行，保留原順序
func CompactLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// SplitAndTrim 依分隔符切割字串，修剪並丟棄空白項目
func SplitAndTrim(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return CompactLines(strings.Split(s, sep))
}

// StringPtr 空字串回傳 nil
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
