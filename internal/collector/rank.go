package collector

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/Yashgade08/Hackathon-project/internal/category"
)

// DedupeAndRank 跨源去重并全局排序：
//   - 按标题指纹分组，指纹为空的条目没有稳定标识，直接丢弃；
//   - 同组保留 engagement 更高的一条，持平时先到先得；
//   - 按 (engagement, createdAt) 降序排序后截断到 limit。
//
// 纯函数：对自身输出再次调用除了重新截断外没有任何效果
func DedupeAndRank(trends []Trend, limit int) []Trend {
	unique := make(map[string]Trend)
	order := make([]string, 0, len(trends))

	for _, item := range trends {
		key := category.NormalizeTitle(item.Title)
		if key == "" {
			continue
		}
		existing, ok := unique[key]
		if !ok {
			unique[key] = item
			order = append(order, key)
			continue
		}
		if item.Engagement() > existing.Engagement() {
			unique[key] = item
		}
	}

	ranked := make([]Trend, 0, len(unique))
	for _, key := range order {
		ranked = append(ranked, unique[key])
	}
	SortByRank(ranked)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// SortByRank 按 (engagement, createdAt) 降序排序
func SortByRank(trends []Trend) {
	sort.SliceStable(trends, func(i, j int) bool {
		if trends[i].Engagement() != trends[j].Engagement() {
			return trends[i].Engagement() > trends[j].Engagement()
		}
		return trends[i].CreatedAt > trends[j].CreatedAt
	})
}

// contentID 对 (分类, 链接, 标题) 做 sha1 后取前 16 位十六进制，
// 给没有原生 ID 的源生成确定性的短 ID：同一篇文章反复抓取 ID 不变
func contentID(cat, url, title string) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%s", cat, url, title)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// engagementFromRecency 给只有发布时间、没有互动数据的源（RSS 类）估算热度：
// 按 max(floor, 120/小时数) 衰减，越新热度越高
func engagementFromRecency(createdUTC int64, floor float64) float64 {
	hoursOld := time.Since(time.Unix(createdUTC, 0)).Hours()
	if hoursOld < 1 {
		hoursOld = 1
	}
	score := 120.0 / hoursOld
	if score < floor {
		score = floor
	}
	return float64(int(score))
}
