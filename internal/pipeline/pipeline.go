package pipeline

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Yashgade08/Hackathon-project/internal/category"
	"github.com/Yashgade08/Hackathon-project/internal/collector"
	"github.com/Yashgade08/Hackathon-project/internal/processor"
	"github.com/Yashgade08/Hackathon-project/internal/scoring"
)

const (
	MinLimit = 5
	MaxLimit = 40

	defaultVerifyWorkers = 4
)

// Response 一次完整分析的产物，对外的唯一核心出口
type Response struct {
	GeneratedAt         string            `json:"generatedAt"`
	AnalyzedCount       int               `json:"analyzedCount"`
	SelectedCategory    string            `json:"selectedCategory"`
	AvailableCategories []string          `json:"availableCategories"`
	SourceHealth        map[string]string `json:"sourceHealth"`
	Results             []scoring.Result  `json:"results"`
}

// Pipeline 串起聚合与打分两段：抓取趋势，逐条验证打分，按处置优先级排序
type Pipeline struct {
	Aggregator    *processor.Aggregator
	Scorer        *scoring.Scorer
	VerifyWorkers int
}

func New(xBearerToken string, verifyWorkers int) *Pipeline {
	if verifyWorkers <= 0 {
		verifyWorkers = defaultVerifyWorkers
	}
	return &Pipeline{
		Aggregator:    processor.NewAggregator(xBearerToken),
		Scorer:        scoring.NewScorer(),
		VerifyWorkers: verifyWorkers,
	}
}

// ClampLimit 把请求的条数收敛到 [MinLimit, MaxLimit]
func ClampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Run 执行一次完整的抓取+分析。
// 验证 Oracle 每条趋势调一次，彼此独立，用有界并发避免压垮上游
func (p *Pipeline) Run(limit int, cat string) Response {
	limit = ClampLimit(limit)
	normalized := category.Normalize(cat)

	trends, sourceHealth := p.Aggregator.FetchTrends(limit, normalized)
	log.Printf("pipeline: fetched %d trends (category=%s), analyzing...", len(trends), normalized)

	results := make([]scoring.Result, len(trends))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.VerifyWorkers)
	for i, trend := range trends {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, trend collector.Trend) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = p.Scorer.Analyze(trend)
		}(i, trend)
	}
	wg.Wait()

	sortByTriage(results)

	return Response{
		GeneratedAt:         time.Now().UTC().Format(time.RFC3339),
		AnalyzedCount:       len(results),
		SelectedCategory:    normalized,
		AvailableCategories: category.IDs(),
		SourceHealth:        sourceHealth,
		Results:             results,
	}
}

// sortByTriage 按处置优先级降序：疑似误导的排最前，再按伪概率、传播指数
func sortByTriage(results []scoring.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		iMisleading := results[i].Verdict == scoring.VerdictLikelyMisleading
		jMisleading := results[j].Verdict == scoring.VerdictLikelyMisleading
		if iMisleading != jMisleading {
			return iMisleading
		}
		if results[i].FakeProbability != results[j].FakeProbability {
			return results[i].FakeProbability > results[j].FakeProbability
		}
		return results[i].SpreadIndex > results[j].SpreadIndex
	})
}
