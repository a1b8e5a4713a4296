package verifier

import (
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
)

const (
	verifyTimeout    = 12 * time.Second
	verifyMaxResults = 12
	maxFeedBytes     = 2 << 20

	// 展示给调用方的证据条数上限；打分仍然用完整抓取集
	maxDisplayArticles = 8

	// 可信命中的权重门槛
	credibleWeightThreshold = 0.75
)

// credibleSourceWeights 静态信源权重表：0 为未知/不可信，1 为最高可信。
// 这是可调的策略表，不是不变量；按域名后缀匹配
var credibleSourceWeights = []struct {
	domain string
	weight float64
}{
	{"reuters.com", 1.0},
	{"apnews.com", 1.0},
	{"bbc.com", 0.95},
	{"npr.org", 0.95},
	{"pbs.org", 0.92},
	{"nytimes.com", 0.9},
	{"wsj.com", 0.9},
	{"washingtonpost.com", 0.9},
	{"bloomberg.com", 0.88},
	{"financialtimes.com", 0.88},
	{"economist.com", 0.88},
	{"theguardian.com", 0.87},
	{"abcnews.go.com", 0.82},
	{"usatoday.com", 0.8},
	{"cbsnews.com", 0.8},
	{"nbcnews.com", 0.8},
	{"aljazeera.com", 0.79},
	{"cnn.com", 0.78},
	{"forbes.com", 0.72},
	{"techcrunch.com", 0.7},
	{"theverge.com", 0.7},
}

// EvidenceArticle 验证阶段找到的一篇佐证/反驳报道
type EvidenceArticle struct {
	Title        string  `json:"title"`
	Source       string  `json:"source"`
	SourceURL    string  `json:"sourceUrl"`
	ArticleURL   string  `json:"articleUrl"`
	PublishedAt  string  `json:"publishedAt"`
	SourceWeight float64 `json:"sourceWeight"`
}

// Evidence 单次查询的证据汇总。
// 不变量：CredibleHits <= TotalHits；Confidence 由三个计数确定性推出
type Evidence struct {
	Query           string            `json:"query"`
	CredibleHits    int               `json:"credibleHits"`
	TotalHits       int               `json:"totalHits"`
	SourceDiversity int               `json:"sourceDiversity"`
	Confidence      float64           `json:"confidence"`
	Articles        []EvidenceArticle `json:"articles"`
}

func emptyEvidence(query string) Evidence {
	return Evidence{Query: query, Articles: []EvidenceArticle{}}
}

// domainFromURL 提取小写域名并去掉 www. 前缀
func domainFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

// weightForDomain 按最长后缀匹配查权重表，未知域名按 0 处理（不可信，而非缺失）
func weightForDomain(domain string) float64 {
	if domain == "" {
		return 0.0
	}
	for _, entry := range credibleSourceWeights {
		if strings.HasSuffix(domain, entry.domain) {
			return entry.weight
		}
	}
	return 0.0
}

// VerifyClaim 向独立的新闻搜索源查询标题，对每条结果的发布方打信任分，
// 归并成单一置信度。任何失败都返回零证据结果，绝不向调用方抛错
func VerifyClaim(query string) Evidence {
	rssURL := fmt.Sprintf(
		"https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(query),
	)

	client := &http.Client{Timeout: verifyTimeout}
	resp, err := client.Get(rssURL)
	if err != nil {
		log.Printf("verifier: fetch feed: %v", err)
		return emptyEvidence(query)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return emptyEvidence(query)
	}

	parser := &rss.Parser{}
	feed, err := parser.Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil || feed == nil {
		return emptyEvidence(query)
	}

	articles := make([]EvidenceArticle, 0, verifyMaxResults)
	for _, item := range feed.Items {
		if len(articles) >= verifyMaxResults {
			break
		}
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)

		sourceName := ""
		sourceURL := ""
		if item.Source != nil {
			sourceName = strings.TrimSpace(item.Source.Title)
			sourceURL = strings.TrimSpace(item.Source.URL)
		}

		domain := domainFromURL(sourceURL)
		if domain == "" {
			domain = domainFromURL(link)
		}

		published := time.Now().UTC()
		if item.PubDateParsed != nil {
			published = *item.PubDateParsed
		}
		if sourceName == "" {
			sourceName = domain
		}
		if sourceName == "" {
			sourceName = "Unknown"
		}

		articles = append(articles, EvidenceArticle{
			Title:        title,
			Source:       sourceName,
			SourceURL:    sourceURL,
			ArticleURL:   link,
			PublishedAt:  published.Format(time.RFC3339),
			SourceWeight: weightForDomain(domain),
		})
	}

	return scoreArticles(query, articles)
}

// scoreArticles 把打好权重的文章集合归并成证据汇总。
// 置信度 = 可信命中率*0.55 + 平均信任度*0.35 + 信源多样性*0.10（三项权重和为 1）
func scoreArticles(query string, articles []EvidenceArticle) Evidence {
	totalHits := len(articles)
	if totalHits == 0 {
		return emptyEvidence(query)
	}

	credibleHits := 0
	weightedSum := 0.0
	distinctSources := make(map[string]bool)
	for _, article := range articles {
		if article.SourceWeight >= credibleWeightThreshold {
			credibleHits++
		}
		weightedSum += article.SourceWeight
		if article.SourceWeight > 0 {
			distinctSources[article.Source] = true
		}
	}
	diversity := len(distinctSources)

	diversityCapped := float64(diversity)
	if diversityCapped > 6 {
		diversityCapped = 6
	}
	confidence := float64(credibleHits)/float64(totalHits)*0.55 +
		weightedSum/float64(totalHits)*0.35 +
		diversityCapped/6*0.10
	if confidence > 1 {
		confidence = 1
	}
	confidence = math.Round(confidence*10000) / 10000

	display := articles
	if len(display) > maxDisplayArticles {
		display = display[:maxDisplayArticles]
	}

	return Evidence{
		Query:           query,
		CredibleHits:    credibleHits,
		TotalHits:       totalHits,
		SourceDiversity: diversity,
		Confidence:      confidence,
		Articles:        display,
	}
}
