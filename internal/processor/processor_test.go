package processor

import (
	"testing"
	"time"

	"github.com/Yashgade08/Hackathon-project/internal/category"
	"github.com/Yashgade08/Hackathon-project/internal/collector"
)

func mkTrend(id, title, cat string, engagement float64) collector.Trend {
	return collector.Trend{
		ID:        id,
		Platform:  "Test",
		Category:  cat,
		Title:     title,
		URL:       "https://example.com/" + id,
		Author:    "tester",
		CreatedAt: time.Now().Unix(),
		Metrics: map[string]float64{
			"score":      engagement,
			"comments":   0,
			"engagement": engagement,
		},
	}
}

func TestBalanceAllCategoriesCoversEveryCategory(t *testing.T) {
	// 覆盖全部 10 个非 all 分类，每类两条
	var items []collector.Trend
	i := 0
	for _, cat := range category.Order {
		if cat == "all" {
			continue
		}
		items = append(items,
			mkTrend("id-a-"+cat, "top headline "+cat, cat, float64(100-i)),
			mkTrend("id-b-"+cat, "second headline "+cat, cat, float64(50-i)),
		)
		i++
	}
	collector.SortByRank(items)

	out := BalanceAllCategories(items, 12)
	if len(out) != 12 {
		t.Fatalf("expected 12 items, got %d", len(out))
	}

	seenCats := make(map[string]bool)
	for _, item := range out {
		seenCats[item.Category] = true
	}
	for _, cat := range category.Order {
		if cat == "all" {
			continue
		}
		if !seenCats[cat] {
			t.Fatalf("category %q missing from balanced result", cat)
		}
	}
}

func TestBalanceAllCategoriesRespectsLimit(t *testing.T) {
	var items []collector.Trend
	for _, cat := range []string{"world", "sports", "health", "food"} {
		items = append(items, mkTrend("id-"+cat, "headline "+cat, cat, 10))
	}

	out := BalanceAllCategories(items, 2)
	if len(out) != 2 {
		t.Fatalf("expected limit to cap result at 2, got %d", len(out))
	}
	// 名额不足时按枚举顺序决定谁拿到代表席位
	if out[0].Category != "world" || out[1].Category != "health" {
		t.Fatalf("first-pass order should follow the category enum: %q, %q", out[0].Category, out[1].Category)
	}

	if got := BalanceAllCategories(nil, 5); got != nil {
		t.Fatalf("empty input should return nil, got %v", got)
	}
}

func TestBalanceAllCategoriesSecondPassSkipsSelected(t *testing.T) {
	items := []collector.Trend{
		mkTrend("w1", "world one", "world", 100),
		mkTrend("w2", "world two", "world", 90),
		mkTrend("s1", "sports one", "sports", 80),
	}
	out := BalanceAllCategories(items, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3, got %d", len(out))
	}
	seen := make(map[string]bool)
	for _, item := range out {
		if seen[item.ID] {
			t.Fatalf("duplicate id %q in balanced result", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestSourceQuotasDeterministicWithFloors(t *testing.T) {
	r1, h1, g1, x1 := sourceQuotas(20, "all")
	r2, h2, g2, x2 := sourceQuotas(20, "all")
	if r1 != r2 || h1 != h2 || g1 != g2 || x1 != x2 {
		t.Fatalf("quota split must be deterministic")
	}
	// limit=20, all: reddit=max(5,4)=5 hn=max(3,3)=3 gnews=max(8,9)=9 x=max(3,20-5-3-9+4)=7
	if r1 != 5 || h1 != 3 || g1 != 9 || x1 != 7 {
		t.Fatalf("all quotas for limit=20 = %d/%d/%d/%d", r1, h1, g1, x1)
	}

	// 小 limit 时每个源仍有保底名额
	r, h, g, x := sourceQuotas(5, "sports")
	if r < 4 || h < 2 || g < 7 || x < 2 {
		t.Fatalf("specific-category floors violated: %d/%d/%d/%d", r, h, g, x)
	}
}

type stubFetcher struct {
	name  string
	items []collector.Trend
}

func (s *stubFetcher) Name() string { return s.name }
func (s *stubFetcher) Fetch(limit int, cat string) []collector.Trend {
	if len(s.items) > limit {
		return s.items[:limit]
	}
	return s.items
}

type stubStatusFetcher struct {
	stubFetcher
	status string
}

func (s *stubStatusFetcher) FetchWithStatus(limit int, cat string) ([]collector.Trend, string) {
	return s.Fetch(limit, cat), s.status
}

func TestFetchTrendsAllSourcesEmpty(t *testing.T) {
	agg := &Aggregator{
		Reddit:     &stubFetcher{name: "reddit"},
		HackerNews: &stubFetcher{name: "hacker_news"},
		GNews:      &stubFetcher{name: "google_news"},
		X:          &stubStatusFetcher{stubFetcher: stubFetcher{name: "x"}, status: "fallback_unavailable_missing_token"},
	}

	items, health := agg.FetchTrends(20, "all")
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %d items", len(items))
	}
	want := map[string]string{
		"reddit":      "empty_or_rate_limited",
		"hacker_news": "empty",
		"google_news": "empty_or_rate_limited",
		"x":           "fallback_unavailable_missing_token",
	}
	for k, v := range want {
		if health[k] != v {
			t.Fatalf("health[%q] = %q, want %q", k, health[k], v)
		}
	}
}

func TestFetchTrendsMergesAndReportsHealth(t *testing.T) {
	agg := &Aggregator{
		Reddit: &stubFetcher{name: "reddit", items: []collector.Trend{
			mkTrend("reddit:1", "shared big story", "world", 100),
			mkTrend("reddit:2", "reddit only story", "sports", 40),
		}},
		HackerNews: &stubFetcher{name: "hacker_news", items: []collector.Trend{
			mkTrend("hn:1", "Shared Big Story", "world", 60), // 跨源重复，热度更低
		}},
		GNews: &stubFetcher{name: "google_news", items: []collector.Trend{
			mkTrend("gnews:1", "news only story", "health", 80),
		}},
		X: &stubStatusFetcher{stubFetcher: stubFetcher{name: "x"}, status: "api_error_or_empty"},
	}

	items, health := agg.FetchTrends(10, "world")
	if health["reddit"] != "ok:2" || health["hacker_news"] != "ok:1" || health["google_news"] != "ok:1" {
		t.Fatalf("unexpected health map: %v", health)
	}
	if health["x"] != "api_error_or_empty" {
		t.Fatalf("x status should pass through: %q", health["x"])
	}

	// 跨源重复标题只保留热度更高的一条
	ids := make(map[string]bool)
	for _, item := range items {
		ids[item.ID] = true
	}
	if !ids["reddit:1"] || ids["hn:1"] {
		t.Fatalf("dedup should keep the higher-engagement copy: %v", ids)
	}
}
