package pipeline

import (
	"testing"
	"time"

	"github.com/Yashgade08/Hackathon-project/internal/collector"
	"github.com/Yashgade08/Hackathon-project/internal/processor"
	"github.com/Yashgade08/Hackathon-project/internal/scoring"
	"github.com/Yashgade08/Hackathon-project/internal/verifier"
)

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

func mkTrend(id, title string, engagement float64) collector.Trend {
	return collector.Trend{
		ID:        id,
		Platform:  "Test",
		Category:  "trending",
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

func testPipeline(agg *processor.Aggregator, verify func(string) verifier.Evidence) *Pipeline {
	return &Pipeline{
		Aggregator:    agg,
		Scorer:        &scoring.Scorer{Verify: verify, Now: time.Now},
		VerifyWorkers: 2,
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 5}, {4, 5}, {5, 5}, {20, 20}, {40, 40}, {41, 40}, {-3, 5},
	}
	for _, c := range cases {
		if got := ClampLimit(c.in); got != c.want {
			t.Fatalf("ClampLimit(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestRunAllSourcesEmpty(t *testing.T) {
	agg := &processor.Aggregator{
		Reddit:     &stubFetcher{name: "reddit"},
		HackerNews: &stubFetcher{name: "hacker_news"},
		GNews:      &stubFetcher{name: "google_news"},
		X:          &stubStatusFetcher{stubFetcher: stubFetcher{name: "x"}, status: "fallback_unavailable_missing_token"},
	}
	p := testPipeline(agg, func(string) verifier.Evidence {
		t.Errorf("verify must not run for empty trend list")
		return verifier.Evidence{}
	})

	resp := p.Run(20, "all")
	if resp.AnalyzedCount != 0 || len(resp.Results) != 0 {
		t.Fatalf("expected empty analysis, got %+v", resp)
	}
	if resp.SourceHealth["hacker_news"] != "empty" {
		t.Fatalf("health should report empty sources: %v", resp.SourceHealth)
	}
	if resp.SelectedCategory != "all" {
		t.Fatalf("SelectedCategory = %q", resp.SelectedCategory)
	}
	// 分类列表是静态枚举，与选择无关
	if len(resp.AvailableCategories) != 11 || resp.AvailableCategories[0] != "all" {
		t.Fatalf("AvailableCategories = %v", resp.AvailableCategories)
	}
}

func TestRunTriageOrdering(t *testing.T) {
	agg := &processor.Aggregator{
		Reddit: &stubFetcher{name: "reddit", items: []collector.Trend{
			mkTrend("r1", "BREAKING: Shocking Leaked rumor!!!", 500),
			mkTrend("r2", "Officials publish annual budget report", 400),
			mkTrend("r3", "Unverified viral leaked clip explodes!!!", 300),
		}},
		HackerNews: &stubFetcher{name: "hacker_news"},
		GNews:      &stubFetcher{name: "google_news"},
		X:          &stubStatusFetcher{stubFetcher: stubFetcher{name: "x"}, status: "api_error_or_empty"},
	}

	// r2 给足佐证，其余零证据
	verify := func(query string) verifier.Evidence {
		if query == "Officials publish annual budget report" {
			return verifier.Evidence{
				Query: query, CredibleHits: 4, TotalHits: 5,
				SourceDiversity: 4, Confidence: 0.9,
			}
		}
		return verifier.Evidence{Query: query}
	}

	p := testPipeline(agg, verify)
	resp := p.Run(10, "trending")

	if resp.AnalyzedCount != 3 {
		t.Fatalf("AnalyzedCount = %d, want 3", resp.AnalyzedCount)
	}

	// 疑似误导的排最前，组内按伪概率降序；有佐证的排最后
	if resp.Results[len(resp.Results)-1].Trend.ID != "r2" {
		t.Fatalf("corroborated item should sort last, got order %v", ids(resp.Results))
	}
	for i := 0; i < len(resp.Results)-1; i++ {
		cur, next := resp.Results[i], resp.Results[i+1]
		curM := cur.Verdict == scoring.VerdictLikelyMisleading
		nextM := next.Verdict == scoring.VerdictLikelyMisleading
		if !curM && nextM {
			t.Fatalf("misleading items must sort first: %v", ids(resp.Results))
		}
		if curM == nextM && cur.FakeProbability < next.FakeProbability {
			t.Fatalf("results not sorted by fakeProbability: %v", ids(resp.Results))
		}
	}

	// 每条结果都满足互补不变量
	for _, r := range resp.Results {
		if got := r.CredibilityScore + r.FakeProbability; got < 99.99 || got > 100.01 {
			t.Fatalf("credibility + fake = %v for %q", got, r.Trend.ID)
		}
	}
}

func ids(results []scoring.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Trend.ID)
	}
	return out
}
