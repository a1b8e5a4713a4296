package collector

import (
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/mmcdole/gofeed"

	"github.com/Yashgade08/Hackathon-project/internal/category"
)

const (
	xAPITimeout     = 12 * time.Second
	xMirrorURL      = "https://trends24.in/"
	xMirrorMaxItems = 30

	// 无凭证兜底路径的硬性时间预算：超时就放弃剩余端点，有多少算多少
	nitterTotalBudget  = 4 * time.Second
	nitterPerReq       = 2 * time.Second
	nitterMaxAccounts  = 3
	nitterItemsPerFeed = 2
)

var xQueryByCategory = map[string]string{
	"local":         "(local news OR city updates) lang:en -is:retweet",
	"india":         "(India news OR India breaking) lang:en -is:retweet",
	"world":         "(world news OR global breaking) lang:en -is:retweet",
	"entertainment": "(entertainment OR celebrity OR movie release) lang:en -is:retweet",
	"health":        "(health news OR medical update OR WHO) lang:en -is:retweet",
	"trending":      "(news OR breaking OR viral) lang:en -is:retweet",
	"sports":        "(sports OR match OR finals) lang:en -is:retweet",
	"esports":       "(esports OR valorant OR cs2 OR dota2) lang:en -is:retweet",
	"food":          "(food news OR restaurant OR culinary) lang:en -is:retweet",
	"events":        "(event update OR festival OR conference) lang:en -is:retweet",
}

var nitterInstances = []string{
	"https://nitter.net",
	"https://nitter.privacydev.net",
}

var nitterAccountsByCategory = map[string][]string{
	"india":         {"ndtv", "ANI", "the_hindu"},
	"world":         {"Reuters", "BBCWorld", "AP"},
	"entertainment": {"Variety", "RollingStone"},
	"health":        {"WHO", "CDCgov"},
	"sports":        {"espn", "SkySportsNews"},
	"esports":       {"ESPN_Esports", "Dexerto"},
	"food":          {"foodnetwork", "bonappetit"},
	"events":        {"LiveNation", "Eventbrite"},
	"trending":      {"Reuters", "AP", "BBCBreaking"},
	"local":         {"ABC", "CBSNews"},
}

// XTrendsFetcher 抓取 X (Twitter) 热门内容。
// 配置了 Bearer Token 时走官方搜索 API，否则退化为公开镜像的尽力而为抓取；
// 两条路径互斥，在构造时一次性确定
type XTrendsFetcher struct {
	BearerToken string
}

func (x *XTrendsFetcher) Name() string {
	return "x"
}

func (x *XTrendsFetcher) Fetch(limit int, cat string) []Trend {
	items, _ := x.FetchWithStatus(limit, cat)
	return items
}

// FetchWithStatus 额外返回本次走了哪条策略路径，供健康报告观测：
// api_ok / api_error_or_empty / fallback_rss / fallback_scrape / fallback_unavailable_missing_token
func (x *XTrendsFetcher) FetchWithStatus(limit int, cat string) ([]Trend, string) {
	if strings.TrimSpace(x.BearerToken) != "" {
		items := x.fetchFromAPI(limit, cat)
		if len(items) > 0 {
			return items, "api_ok"
		}
		return nil, "api_error_or_empty"
	}

	startedAt := time.Now()
	items := x.fetchNitterFallback(limit, cat, startedAt)
	if len(items) > 0 {
		return items, "fallback_rss"
	}
	// RSS 镜像全军覆没时再试一次热搜镜像页抓取
	if time.Since(startedAt) < nitterTotalBudget {
		items = x.fetchMirrorScrape(limit, cat)
		if len(items) > 0 {
			return items, "fallback_scrape"
		}
	}
	return nil, "fallback_unavailable_missing_token"
}

type xSearchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			LikeCount    float64 `json:"like_count"`
			RetweetCount float64 `json:"retweet_count"`
			ReplyCount   float64 `json:"reply_count"`
			QuoteCount   float64 `json:"quote_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

func (x *XTrendsFetcher) fetchFromAPI(limit int, cat string) []Trend {
	log.Printf("fetch X recent search via API (category=%s)...", cat)

	query, ok := xQueryByCategory[cat]
	if !ok || cat == "all" {
		query = xQueryByCategory["trending"]
	}

	maxResults := limit * 2
	if maxResults < 10 {
		maxResults = 10
	}
	if maxResults > 100 {
		maxResults = 100
	}

	params := url.Values{
		"query":        {query},
		"max_results":  {strconv.Itoa(maxResults)},
		"tweet.fields": {"created_at,public_metrics,author_id"},
	}
	headers := map[string]string{
		"Authorization": "Bearer " + x.BearerToken,
	}

	var payload xSearchResponse
	if ok := safeGetJSON("https://api.twitter.com/2/tweets/search/recent", params, headers, xAPITimeout, &payload); !ok {
		return nil
	}

	tweets := payload.Data
	if len(tweets) > limit*2 {
		tweets = tweets[:limit*2]
	}

	trends := make([]Trend, 0, len(tweets))
	for _, tweet := range tweets {
		text := strings.TrimSpace(strings.ReplaceAll(tweet.Text, "\n", " "))
		if text == "" {
			continue
		}

		m := tweet.PublicMetrics
		// 转发/回复/引用都代表主动传播，权重翻倍；点赞是被动信号
		engagement := m.LikeCount + m.RetweetCount*2 + m.ReplyCount*2 + m.QuoteCount*2

		createdUTC := time.Now().Unix()
		if parsed, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
			createdUTC = parsed.Unix()
		}

		fallback := cat
		if cat == "all" {
			fallback = "trending"
		}
		author := tweet.AuthorID
		if author == "" {
			author = "unknown"
		}

		trends = append(trends, Trend{
			ID:        "x:" + tweet.ID,
			Platform:  "X",
			Category:  category.Infer(text, fallback),
			Title:     text,
			URL:       "https://x.com/i/web/status/" + tweet.ID,
			Author:    author,
			CreatedAt: createdUTC,
			Metrics: map[string]float64{
				"score":      m.LikeCount,
				"comments":   m.ReplyCount,
				"engagement": engagement,
				"reposts":    m.RetweetCount,
				"quotes":     m.QuoteCount,
			},
		})
	}
	return DedupeAndRank(trends, limit)
}

// nitterTitleRe 去掉 RSS 标题里 "账号名: " 这样的前缀
var nitterTitleRe = regexp.MustCompile(`^[^:]+:\s*`)

func (x *XTrendsFetcher) fetchNitterFallback(limit int, cat string, startedAt time.Time) []Trend {
	log.Printf("fetch X via nitter fallback (category=%s)...", cat)

	accounts, ok := nitterAccountsByCategory[cat]
	if !ok {
		accounts = nitterAccountsByCategory["trending"]
	}
	if cat == "all" {
		accounts = append(append([]string{}, nitterAccountsByCategory["trending"]...), nitterAccountsByCategory["sports"]...)
	}
	if len(accounts) > nitterMaxAccounts {
		accounts = accounts[:nitterMaxAccounts]
	}

	parser := gofeed.NewParser()
	trends := make([]Trend, 0, limit)

	for _, account := range accounts {
		if time.Since(startedAt) > nitterTotalBudget || len(trends) >= limit {
			break
		}
		for _, instance := range nitterInstances[:1] {
			if time.Since(startedAt) > nitterTotalBudget {
				break
			}
			xmlText := safeGetText(instance+"/"+account+"/rss", nitterPerReq)
			if xmlText == "" {
				continue
			}
			feed, err := parser.ParseString(xmlText)
			if err != nil || feed == nil {
				continue
			}

			count := 0
			for _, item := range feed.Items {
				if count >= nitterItemsPerFeed {
					break
				}
				title := strings.TrimSpace(item.Title)
				link := strings.TrimSpace(item.Link)
				if title == "" || link == "" {
					continue
				}
				cleanTitle := strings.TrimSpace(nitterTitleRe.ReplaceAllString(title, ""))
				if cleanTitle == "" {
					continue
				}

				createdUTC := time.Now().Unix()
				if item.PublishedParsed != nil {
					createdUTC = item.PublishedParsed.Unix()
				}
				engagement := engagementFromRecency(createdUTC, 8)
				fallback := cat
				if cat == "all" {
					fallback = "trending"
				}
				itemCat := category.Infer(cleanTitle, fallback)

				trends = append(trends, Trend{
					ID:        "xrss:" + contentID(itemCat, link, cleanTitle),
					Platform:  "X",
					Category:  itemCat,
					Title:     cleanTitle,
					URL:       link,
					Author:    account,
					CreatedAt: createdUTC,
					Metrics: map[string]float64{
						"score":      engagement,
						"comments":   0,
						"engagement": engagement,
					},
					RawData: map[string]any{"mode": "nitter_fallback"},
				})
				count++
				if len(trends) >= limit {
					break
				}
			}
		}
	}

	return DedupeAndRank(trends, limit)
}

// fetchMirrorScrape 最后的兜底：抓热搜镜像页上的话题链接。
// 镜像页没有互动数据，按榜单名次折算热度
func (x *XTrendsFetcher) fetchMirrorScrape(limit int, cat string) []Trend {
	log.Printf("fetch X via mirror scrape (category=%s)...", cat)

	c := colly.NewCollector(
		colly.AllowedDomains("trends24.in", "www.trends24.in"),
		colly.UserAgent(defaultUserAgent),
	)
	c.SetRequestTimeout(nitterPerReq)

	var topics []string
	seen := make(map[string]bool)

	// 镜像页 DOM 可能调整，这里只认话题链接本身，容器结构变化也能工作
	c.OnHTML("body", func(e *colly.HTMLElement) {
		e.DOM.Find("a[href*='twitter.com/search'], a[href*='x.com/search']").Each(func(_ int, s *goquery.Selection) {
			title := strings.TrimSpace(s.Text())
			if title == "" || len(title) > 200 || seen[title] {
				return
			}
			seen[title] = true
			topics = append(topics, title)
		})
	})

	if err := c.Visit(xMirrorURL); err != nil {
		log.Printf("x mirror scrape: %v", err)
		return nil
	}

	if len(topics) > xMirrorMaxItems {
		topics = topics[:xMirrorMaxItems]
	}

	now := time.Now().Unix()
	trends := make([]Trend, 0, len(topics))
	for i, topic := range topics {
		if cat != "all" && cat != "trending" && !category.Matches(topic, cat) {
			continue
		}
		rankScore := float64(xMirrorMaxItems - i)
		if rankScore < 1 {
			rankScore = 1
		}
		fallback := cat
		if cat == "all" {
			fallback = "trending"
		}
		itemCat := category.Infer(topic, fallback)
		searchURL := "https://x.com/search?q=" + url.QueryEscape(topic)

		trends = append(trends, Trend{
			ID:        "xscrape:" + contentID(itemCat, searchURL, topic),
			Platform:  "X",
			Category:  itemCat,
			Title:     topic,
			URL:       searchURL,
			Author:    "unknown",
			CreatedAt: now,
			Metrics: map[string]float64{
				"score":      rankScore,
				"comments":   0,
				"engagement": rankScore,
			},
			RawData: map[string]any{"mode": "mirror_scrape", "rank": i + 1},
		})
	}

	return DedupeAndRank(trends, limit)
}
