package category

import (
	"regexp"
	"strings"
)

// Order 是固定的分类枚举，顺序即前端展示顺序与均衡器的第一轮选取顺序
var Order = []string{
	"all",
	"local",
	"india",
	"world",
	"entertainment",
	"health",
	"trending",
	"sports",
	"esports",
	"food",
	"events",
}

var labels = map[string]string{
	"all":           "All",
	"local":         "Local",
	"india":         "India",
	"world":         "World",
	"entertainment": "Entertainment",
	"health":        "Health",
	"trending":      "Trending",
	"sports":        "Sports",
	"esports":       "Esports",
	"food":          "Food",
	"events":        "Events",
}

// inferOrder 是关键词推断的扫描顺序；Go map 遍历是随机的，
// 这里必须用固定切片保证同一标题每次都推断出同一分类
var inferOrder = []string{
	"india",
	"world",
	"entertainment",
	"health",
	"sports",
	"esports",
	"food",
	"events",
	"local",
}

var keywords = map[string][]string{
	"india":         {"india", "delhi", "mumbai", "bengaluru", "new delhi", "kolkata"},
	"world":         {"world", "global", "europe", "asia", "middle east", "africa"},
	"entertainment": {"movie", "music", "actor", "actress", "hollywood", "bollywood"},
	"health":        {"health", "medical", "disease", "vaccine", "hospital", "doctor"},
	"sports":        {"sports", "match", "league", "tournament", "goal", "cricket", "nba", "nfl"},
	"esports":       {"esports", "valorant", "cs2", "counter-strike", "dota", "league of legends"},
	"food":          {"food", "restaurant", "chef", "recipe", "culinary", "dining"},
	"events":        {"festival", "summit", "conference", "event", "expo", "concert"},
	"local":         {"local", "county", "city council", "statewide", "community"},
}

// Available 返回 {id,label} 列表，供前端渲染分类 Tab
func Available() []map[string]string {
	out := make([]map[string]string, 0, len(Order))
	for _, key := range Order {
		out = append(out, map[string]string{"id": key, "label": labels[key]})
	}
	return out
}

// IDs 返回分类 id 列表（含 all）
func IDs() []string {
	out := make([]string, len(Order))
	copy(out, Order)
	return out
}

// Normalize 校验用户输入的分类：空或不在枚举内一律回退到 all
func Normalize(input string) string {
	if input == "" {
		return "all"
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, key := range Order {
		if key == normalized {
			return normalized
		}
	}
	return "all"
}

// Infer 按固定顺序扫描关键词集合推断标题分类，没有命中时返回 fallback
func Infer(title, fallback string) string {
	text := strings.ToLower(title)
	for _, cat := range inferOrder {
		for _, word := range keywords[cat] {
			if strings.Contains(text, word) {
				return cat
			}
		}
	}
	return fallback
}

// Matches 判断标题是否属于某分类。
// all/trending 永远匹配；没有关键词集合的分类也匹配（宽松策略，避免过度过滤）
func Matches(title, cat string) bool {
	if cat == "all" || cat == "trending" {
		return true
	}
	words, ok := keywords[cat]
	if !ok || len(words) == 0 {
		return true
	}
	lower := strings.ToLower(title)
	for _, word := range words {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

var titleCleanRe = regexp.MustCompile(`[^a-z0-9 ]+`)

// NormalizeTitle 生成跨源去重用的标题指纹：小写后只保留 [a-z0-9 ]。
// 结果为空说明标题没有稳定标识，去重阶段会直接丢弃
func NormalizeTitle(title string) string {
	return strings.TrimSpace(titleCleanRe.ReplaceAllString(strings.ToLower(title), ""))
}
