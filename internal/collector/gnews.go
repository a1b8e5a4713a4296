package collector

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"github.com/Yashgade08/Hackathon-project/internal/category"
)

const gnewsTimeout = 12 * time.Second

// categoryQueries 每个分类对应的 Google News 搜索词
var categoryQueries = map[string]string{
	"local":         "local city news breaking updates",
	"india":         "India breaking news latest updates",
	"world":         "world breaking news latest updates",
	"entertainment": "entertainment celebrity movie music news",
	"health":        "health medical public health news",
	"trending":      "viral trending breaking news social media",
	"sports":        "sports breaking scores tournaments news",
	"esports":       "esports tournament gaming league news",
	"food":          "food restaurant culinary agriculture news",
	"events":        "events festival conference live updates",
}

// GNewsFetcher 通过 Google News RSS 搜索抓取新闻热点
type GNewsFetcher struct{}

func (g *GNewsFetcher) Name() string {
	return "google_news"
}

type gnewsRecord struct {
	title     string
	url       string
	source    string
	published time.Time
}

// googleRSSSearch 执行一次 RSS 搜索，任何失败都返回空列表
func googleRSSSearch(query string, maxResults int, gl string) []gnewsRecord {
	rssURL := fmt.Sprintf(
		"https://news.google.com/rss/search?q=%s&hl=en-US&gl=%s&ceid=%s:en",
		url.QueryEscape(query), gl, gl,
	)
	xmlText := safeGetText(rssURL, gnewsTimeout)
	if xmlText == "" {
		return nil
	}

	parser := &rss.Parser{}
	feed, err := parser.Parse(strings.NewReader(xmlText))
	if err != nil || feed == nil {
		return nil
	}

	records := make([]gnewsRecord, 0, maxResults)
	for _, item := range feed.Items {
		if len(records) >= maxResults {
			break
		}
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		published := time.Now().UTC()
		if item.PubDateParsed != nil {
			published = *item.PubDateParsed
		}
		sourceName := "Google News"
		if item.Source != nil && strings.TrimSpace(item.Source.Title) != "" {
			sourceName = strings.TrimSpace(item.Source.Title)
		}

		records = append(records, gnewsRecord{
			title:     title,
			url:       link,
			source:    sourceName,
			published: published,
		})
	}
	return records
}

func (g *GNewsFetcher) Fetch(limit int, cat string) []Trend {
	log.Printf("fetch Google News RSS (category=%s)...", cat)

	type target struct {
		cat   string
		query string
	}

	var targets []target
	var perBucket int
	if cat == "all" {
		// all 模式下按每个分类各查一轮，给均衡器提供素材
		buckets := make([]string, 0, len(category.Order)-1)
		for _, key := range category.Order {
			if key != "all" {
				buckets = append(buckets, key)
			}
		}
		perBucket = limit/len(buckets) + 1
		if perBucket < 2 {
			perBucket = 2
		}
		for _, b := range buckets {
			targets = append(targets, target{cat: b, query: categoryQueries[b]})
		}
	} else {
		query, ok := categoryQueries[cat]
		if !ok {
			query = categoryQueries["trending"]
		}
		perBucket = limit
		if perBucket < 4 {
			perBucket = 4
		}
		targets = []target{{cat: cat, query: query}}
	}

	now := time.Now().UTC()
	trends := make([]Trend, 0, limit*2)
	for _, tg := range targets {
		gl := "US"
		if tg.cat == "india" {
			gl = "IN"
		}
		for _, record := range googleRSSSearch(tg.query, perBucket, gl) {
			createdUTC := record.published.Unix()
			recency := engagementFromRecency(createdUTC, 12)
			ageHours := now.Sub(record.published).Hours()
			if ageHours < 1 {
				ageHours = 1
			}
			// 新鲜度加成：24 小时内的报道按剩余小时数加分
			freshBonus := 24.0 - ageHours
			if freshBonus < 0 {
				freshBonus = 0
			}

			trends = append(trends, Trend{
				ID:        "gnews:" + contentID(tg.cat, record.url, record.title),
				Platform:  "Google News",
				Category:  tg.cat,
				Title:     record.title,
				URL:       record.url,
				Author:    record.source,
				CreatedAt: createdUTC,
				Metrics: map[string]float64{
					"score":      recency,
					"comments":   0,
					"engagement": recency + float64(int(freshBonus)),
				},
				RawData: map[string]any{"source": record.source},
			})
		}
	}

	return DedupeAndRank(trends, limit)
}
