package processor

import (
	"fmt"
	"sync"

	"github.com/Yashgade08/Hackathon-project/internal/category"
	"github.com/Yashgade08/Hackathon-project/internal/collector"
)

// BalanceAllCategories 让 all 视图下每个分类都有露脸机会：
// 第一轮按枚举顺序从每个非空分类取最热的一条，第二轮按全局排名补满剩余名额。
// 输入要求已经去重排序；limit 不小于出现的分类数时，每个分类至少出现一次
func BalanceAllCategories(items []collector.Trend, limit int) []collector.Trend {
	if len(items) == 0 {
		return nil
	}

	byCategory := make(map[string][]collector.Trend)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}
	// 防御性重排：输入理论上已排好，但均衡器不依赖调用方守约
	for _, bucket := range byCategory {
		collector.SortByRank(bucket)
	}

	selected := make([]collector.Trend, 0, limit)
	selectedIDs := make(map[string]bool)

	for _, cat := range category.Order {
		if cat == "all" {
			continue
		}
		bucket := byCategory[cat]
		if len(bucket) == 0 {
			continue
		}
		top := bucket[0]
		selected = append(selected, top)
		selectedIDs[top.ID] = true
		if len(selected) >= limit {
			return selected
		}
	}

	for _, item := range items {
		if selectedIDs[item.ID] {
			continue
		}
		selected = append(selected, item)
		selectedIDs[item.ID] = true
		if len(selected) >= limit {
			break
		}
	}

	return selected
}

// sourceQuotas 按请求的 limit 与分类计算各源配额。
// 设计常量而非不变量：向新闻搜索源倾斜，每个源都有保底名额；
// 同一 (limit, category) 的拆分必须是确定的
func sourceQuotas(limit int, cat string) (reddit, hn, gnews, x int) {
	maxInt := func(a, b int) int {
		if a > b {
			return a
		}
		return b
	}

	if cat == "all" {
		reddit = maxInt(5, int(float64(limit)*0.24))
		hn = maxInt(3, int(float64(limit)*0.16))
		gnews = maxInt(8, int(float64(limit)*0.48))
		x = maxInt(3, limit-reddit-hn-gnews+4)
	} else {
		reddit = maxInt(4, int(float64(limit)*0.28))
		hn = maxInt(2, int(float64(limit)*0.12))
		gnews = maxInt(7, int(float64(limit)*0.50))
		x = maxInt(2, limit-reddit-hn-gnews+3)
	}
	return reddit, hn, gnews, x
}

// Aggregator 编排四个采集器：分配配额、并发抓取、合并去重、分类均衡
type Aggregator struct {
	Reddit     collector.Fetcher
	HackerNews collector.Fetcher
	GNews      collector.Fetcher
	X          collector.StatusFetcher
}

func NewAggregator(xBearerToken string) *Aggregator {
	return &Aggregator{
		Reddit:     &collector.RedditFetcher{},
		HackerNews: &collector.HackerNewsFetcher{},
		GNews:      &collector.GNewsFetcher{},
		X:          &collector.XTrendsFetcher{BearerToken: xBearerToken},
	}
}

// FetchTrends 返回最终趋势列表和按源的健康报告。
// 健康报告只用于诊断展示，绝不影响排序与打分
func (a *Aggregator) FetchTrends(limit int, cat string) ([]collector.Trend, map[string]string) {
	normalized := category.Normalize(cat)
	redditQuota, hnQuota, gnewsQuota, xQuota := sourceQuotas(limit, normalized)

	var (
		wg          sync.WaitGroup
		redditItems []collector.Trend
		hnItems     []collector.Trend
		gnewsItems  []collector.Trend
		xItems      []collector.Trend
		xStatus     string
	)

	// 四个源相互独立，没有共享可变状态，直接并发抓取
	wg.Add(4)
	go func() {
		defer wg.Done()
		redditItems = a.Reddit.Fetch(redditQuota, normalized)
	}()
	go func() {
		defer wg.Done()
		hnItems = a.HackerNews.Fetch(hnQuota, normalized)
	}()
	go func() {
		defer wg.Done()
		gnewsItems = a.GNews.Fetch(gnewsQuota, normalized)
	}()
	go func() {
		defer wg.Done()
		xItems, xStatus = a.X.FetchWithStatus(xQuota, normalized)
	}()
	wg.Wait()

	merged := make([]collector.Trend, 0, len(redditItems)+len(hnItems)+len(gnewsItems)+len(xItems))
	merged = append(merged, redditItems...)
	merged = append(merged, hnItems...)
	merged = append(merged, gnewsItems...)
	merged = append(merged, xItems...)

	// 超量保留，给均衡器留出重新分配的素材
	overFetch := limit * 2
	if overFetch < 30 {
		overFetch = 30
	}
	ranked := collector.DedupeAndRank(merged, overFetch)

	var final []collector.Trend
	if normalized == "all" {
		final = BalanceAllCategories(ranked, limit)
	} else {
		if len(ranked) > limit {
			ranked = ranked[:limit]
		}
		final = ranked
	}

	health := map[string]string{
		"reddit":      healthTag(len(redditItems), "empty_or_rate_limited"),
		"hacker_news": healthTag(len(hnItems), "empty"),
		"google_news": healthTag(len(gnewsItems), "empty_or_rate_limited"),
		"x":           xStatus,
	}
	return final, health
}

func healthTag(count int, emptyTag string) string {
	if count > 0 {
		return fmt.Sprintf("ok:%d", count)
	}
	return emptyTag
}
