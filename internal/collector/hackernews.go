package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Yashgade08/Hackathon-project/internal/category"
)

const (
	hnBaseURL           = "https://hacker-news.firebaseio.com/v0"
	hnMaxStories        = 60 // 候选上限，配额再大也不超过
	hnMaxResponseBytes  = 1 << 20
	hnConcurrency       = 10
	hnClientTimeout     = 10 * time.Second
	hnItemClientTimeout = 5 * time.Second
)

// HackerNewsFetcher 通过官方 Firebase API 抓取 Hacker News 热门故事
type HackerNewsFetcher struct{}

func (h *HackerNewsFetcher) Name() string {
	return "hacker_news"
}

type hnItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Type        string `json:"type"`
}

func (h *HackerNewsFetcher) Fetch(limit int, cat string) []Trend {
	log.Printf("fetch Hacker News top stories (category=%s)...", cat)

	var ids []int
	if ok := safeGetJSON(hnBaseURL+"/topstories.json", nil, nil, hnClientTimeout, &ids); !ok {
		return nil
	}

	// 候选按配额放大，补偿分类过滤与去重的损耗
	candidates := limit * 3
	if candidates > hnMaxStories {
		candidates = hnMaxStories
	}
	if len(ids) > candidates {
		ids = ids[:candidates]
	}

	type indexedItem struct {
		idx  int
		item hnItem
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		sem   = make(chan struct{}, hnConcurrency)
		items = make([]indexedItem, 0, len(ids))
	)

	itemClient := &http.Client{Timeout: hnItemClientTimeout}

	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx, id int) {
			defer wg.Done()
			defer func() { <-sem }()

			it, err := fetchHNItem(itemClient, id)
			if err != nil {
				log.Printf("hackernews: fetch item %d: %v", id, err)
				return
			}
			if it.Title == "" || it.Type != "story" {
				return
			}

			mu.Lock()
			items = append(items, indexedItem{idx: idx, item: it})
			mu.Unlock()
		}(i, id)
	}
	wg.Wait()

	// 并发收集后按榜单原始顺序还原，保证结果确定
	sort.Slice(items, func(i, j int) bool { return items[i].idx < items[j].idx })

	trends := make([]Trend, 0, len(items))
	for _, ii := range items {
		it := ii.item
		if cat != "all" && cat != "trending" && !category.Matches(it.Title, cat) {
			continue
		}

		itemURL := it.URL
		if itemURL == "" {
			itemURL = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", it.ID)
		}

		createdUTC := it.Time
		if createdUTC == 0 {
			createdUTC = time.Now().Unix()
		}
		fallback := cat
		if cat == "all" {
			fallback = "trending"
		}
		author := it.By
		if author == "" {
			author = "unknown"
		}

		trends = append(trends, Trend{
			ID:        fmt.Sprintf("hn:%d", it.ID),
			Platform:  "Hacker News",
			Category:  category.Infer(it.Title, fallback),
			Title:     it.Title,
			URL:       itemURL,
			Author:    author,
			CreatedAt: createdUTC,
			Metrics: map[string]float64{
				"score":    float64(it.Score),
				"comments": float64(it.Descendants),
				// HN 的讨论串权重更高：一条评论往往代表一次深度参与
				"engagement": float64(it.Score) + float64(it.Descendants)*3,
			},
		})
	}

	return DedupeAndRank(trends, limit)
}

func fetchHNItem(client *http.Client, id int) (hnItem, error) {
	url := fmt.Sprintf("%s/item/%d.json", hnBaseURL, id)
	resp, err := client.Get(url)
	if err != nil {
		return hnItem{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return hnItem{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var it hnItem
	if err := json.NewDecoder(io.LimitReader(resp.Body, hnMaxResponseBytes)).Decode(&it); err != nil {
		return hnItem{}, err
	}
	return it, nil
}
