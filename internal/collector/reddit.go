package collector

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/Yashgade08/Hackathon-project/internal/category"
)

const redditTimeout = 10 * time.Second

var defaultSubreddits = []string{
	"worldnews",
	"news",
	"technology",
	"science",
	"business",
	"politics",
}

var subredditsByCategory = map[string][]string{
	"local":         {"news", "usanews"},
	"india":         {"india", "indianews"},
	"world":         {"worldnews", "news", "geopolitics"},
	"entertainment": {"entertainment", "movies", "television"},
	"health":        {"health", "medicine", "science"},
	"trending":      {"news", "worldnews", "technology", "sports"},
	"sports":        {"sports", "soccer", "cricket", "nba"},
	"esports":       {"esports", "valorant", "globaloffensive", "leagueoflegends"},
	"food":          {"food", "cooking", "recipes"},
	"events":        {"news", "events", "worldnews"},
}

// categoryHintBySubreddit 给按子版块抓到的条目一个分类兜底
var categoryHintBySubreddit = map[string]string{
	"worldnews":       "world",
	"news":            "local",
	"usanews":         "local",
	"india":           "india",
	"indianews":       "india",
	"entertainment":   "entertainment",
	"movies":          "entertainment",
	"television":      "entertainment",
	"health":          "health",
	"medicine":        "health",
	"sports":          "sports",
	"soccer":          "sports",
	"cricket":         "sports",
	"nba":             "sports",
	"esports":         "esports",
	"valorant":        "esports",
	"globaloffensive": "esports",
	"leagueoflegends": "esports",
	"food":            "food",
	"cooking":         "food",
	"recipes":         "food",
	"events":          "events",
}

// RedditFetcher 抓取 Reddit 各子版块的 hot 榜
type RedditFetcher struct{}

func (r *RedditFetcher) Name() string {
	return "reddit"
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				URL         string  `json:"url"`
				Permalink   string  `json:"permalink"`
				Author      string  `json:"author"`
				Score       float64 `json:"score"`
				NumComments float64 `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
				Stickied    bool    `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (r *RedditFetcher) Fetch(limit int, cat string) []Trend {
	log.Printf("fetch Reddit hot (category=%s)...", cat)

	subreddits := subredditsByCategory[cat]
	if cat == "all" || len(subreddits) == 0 {
		subreddits = defaultSubreddits
	}
	// 每个子版块多抓几条，补偿后续过滤与去重的损耗
	perSub := limit/len(subreddits) + 2
	if perSub < 3 {
		perSub = 3
	}

	trends := make([]Trend, 0, limit*2)
	for _, subreddit := range subreddits {
		var listing redditListing
		params := url.Values{"limit": {strconv.Itoa(perSub)}}
		ok := safeGetJSON(
			fmt.Sprintf("https://www.reddit.com/r/%s/hot.json", subreddit),
			params, nil, redditTimeout, &listing,
		)
		if !ok {
			continue
		}

		for _, child := range listing.Data.Children {
			data := child.Data
			if data.Stickied || data.Title == "" {
				continue
			}
			if cat != "all" && !category.Matches(data.Title, cat) {
				continue
			}

			createdUTC := int64(data.CreatedUTC)
			if createdUTC == 0 {
				createdUTC = time.Now().Unix()
			}
			itemURL := data.URL
			if data.Permalink != "" {
				itemURL = "https://www.reddit.com" + data.Permalink
			}

			// 抓具体分类时用请求的分类兜底，all 模式用子版块的提示分类
			hintedFallback := cat
			if cat == "all" {
				hintedFallback = categoryHintBySubreddit[subreddit]
				if hintedFallback == "" {
					hintedFallback = "trending"
				}
			}

			author := data.Author
			if author == "" {
				author = "unknown"
			}

			trends = append(trends, Trend{
				ID:        "reddit:" + data.ID,
				Platform:  "Reddit",
				Category:  category.Infer(data.Title, hintedFallback),
				Title:     data.Title,
				URL:       itemURL,
				Author:    author,
				CreatedAt: createdUTC,
				Metrics: map[string]float64{
					"score":    data.Score,
					"comments": data.NumComments,
					// 评论意味着主动传播，权重高于单纯的点赞
					"engagement": data.Score + data.NumComments*2,
				},
				RawData: map[string]any{"subreddit": subreddit},
			})
		}
	}

	return DedupeAndRank(trends, limit)
}
