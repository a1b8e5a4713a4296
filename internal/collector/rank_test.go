package collector

import (
	"testing"
	"time"
)

func mkTrend(id, title string, engagement float64, createdAt int64) Trend {
	return Trend{
		ID:        id,
		Platform:  "Test",
		Category:  "trending",
		Title:     title,
		URL:       "https://example.com/" + id,
		Author:    "tester",
		CreatedAt: createdAt,
		Metrics: map[string]float64{
			"score":      engagement,
			"comments":   0,
			"engagement": engagement,
		},
	}
}

func TestDedupeAndRankBasicProperties(t *testing.T) {
	now := time.Now().Unix()
	items := []Trend{
		mkTrend("a", "Big Story Today", 10, now),
		mkTrend("b", "big story today!!!", 50, now), // 指纹相同，热度更高，应胜出
		mkTrend("c", "Another headline", 30, now),
		mkTrend("d", "!!!", 99, now), // 指纹为空，必须丢弃
		mkTrend("e", "Third item", 30, now+100),
	}

	out := DedupeAndRank(items, 10)
	if len(out) != 3 {
		t.Fatalf("expected 3 unique items, got %d", len(out))
	}
	if out[0].ID != "b" {
		t.Fatalf("higher engagement duplicate should win, got %q", out[0].ID)
	}
	// 热度相同的 c/e：createdAt 更新的排前面
	if out[1].ID != "e" || out[2].ID != "c" {
		t.Fatalf("createdAt should break engagement ties: got %q then %q", out[1].ID, out[2].ID)
	}

	// 输出必须按 (engagement, createdAt) 降序
	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		if cur.Engagement() > prev.Engagement() {
			t.Fatalf("output not sorted by engagement at %d", i)
		}
		if cur.Engagement() == prev.Engagement() && cur.CreatedAt > prev.CreatedAt {
			t.Fatalf("output not sorted by createdAt at %d", i)
		}
	}
}

func TestDedupeAndRankTiesFirstSeenWins(t *testing.T) {
	now := time.Now().Unix()
	items := []Trend{
		mkTrend("first", "Same Headline", 20, now),
		mkTrend("second", "same headline", 20, now+10),
	}
	out := DedupeAndRank(items, 5)
	if len(out) != 1 || out[0].ID != "first" {
		t.Fatalf("equal engagement should keep the first-seen copy, got %v", out)
	}
}

func TestDedupeAndRankLimitAndIdempotent(t *testing.T) {
	now := time.Now().Unix()
	items := make([]Trend, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, mkTrend(
			string(rune('a'+i)),
			"headline number "+string(rune('a'+i)),
			float64(i),
			now,
		))
	}

	out := DedupeAndRank(items, 7)
	if len(out) != 7 {
		t.Fatalf("expected 7 items, got %d", len(out))
	}

	// 幂等：对输出再跑一遍结果不变
	again := DedupeAndRank(out, 7)
	if len(again) != len(out) {
		t.Fatalf("not idempotent: %d vs %d", len(again), len(out))
	}
	for i := range out {
		if again[i].ID != out[i].ID {
			t.Fatalf("not idempotent at %d: %q vs %q", i, again[i].ID, out[i].ID)
		}
	}
}

func TestContentIDDeterministicAndShort(t *testing.T) {
	a := contentID("world", "https://example.com/x", "Some Title")
	b := contentID("world", "https://example.com/x", "Some Title")
	c := contentID("world", "https://example.com/y", "Some Title")

	if a != b {
		t.Fatalf("contentID not deterministic: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("contentID should differ for different URLs")
	}
	if len(a) != 16 {
		t.Fatalf("contentID length = %d, want 16", len(a))
	}
}

func TestEngagementFromRecency(t *testing.T) {
	now := time.Now()

	// 刚发布：小时数按 1 算，应为 120
	if got := engagementFromRecency(now.Unix(), 10); got != 120 {
		t.Fatalf("fresh item engagement = %v, want 120", got)
	}

	// 很旧的条目衰减到下限
	old := now.Add(-1000 * time.Hour).Unix()
	if got := engagementFromRecency(old, 10); got != 10 {
		t.Fatalf("stale item engagement = %v, want floor 10", got)
	}

	// 越旧越低
	h6 := engagementFromRecency(now.Add(-6*time.Hour).Unix(), 1)
	h12 := engagementFromRecency(now.Add(-12*time.Hour).Unix(), 1)
	if h12 >= h6 {
		t.Fatalf("engagement should decay with age: 6h=%v 12h=%v", h6, h12)
	}
}
