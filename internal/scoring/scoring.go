package scoring

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/Yashgade08/Hackathon-project/internal/collector"
	"github.com/Yashgade08/Hackathon-project/internal/verifier"
)

// 判定阈值（fakeProbability 0-1 口径），下界标签取闭区间
const (
	VerdictLikelyReal        = "Likely Real"
	VerdictNeedsVerification = "Needs Verification"
	VerdictLikelyMisleading  = "Likely Misleading"

	likelyRealThreshold  = 0.25
	needsVerifyThreshold = 0.55
)

// sensationalKeywords 煽动性措辞的固定清单，按大小写不敏感的子串匹配
var sensationalKeywords = []string{
	"shocking",
	"must watch",
	"rumor",
	"unverified",
	"leaked",
	"explodes",
	"you won't believe",
	"viral",
	"breaking",
}

// Result 单条趋势的最终分析结果。
// 不变量：CredibilityScore + FakeProbability == 100（舍入误差内）
type Result struct {
	Trend            collector.Trend   `json:"trend"`
	FakeProbability  float64           `json:"fakeProbability"`
	SpreadIndex      float64           `json:"spreadIndex"`
	CredibilityScore float64           `json:"credibilityScore"`
	Verdict          string            `json:"verdict"`
	Reasons          []string          `json:"reasons"`
	Evidence         verifier.Evidence `json:"evidence"`
}

// Scorer 把验证证据、措辞风险与传播速度合成一个可信度评分。
// Verify 可注入便于测试；Now 同理
type Scorer struct {
	Verify func(query string) verifier.Evidence
	Now    func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{
		Verify: verifier.VerifyClaim,
		Now:    time.Now,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// languageRisk 标题措辞风险：煽动关键词每个 +0.08，感叹号 +0.15，
// 长全大写单词每个 +0.05（上限 0.2），整体钳制到 [0,1]
func languageRisk(title string) float64 {
	lower := strings.ToLower(title)

	keywordHits := 0
	for _, k := range sensationalKeywords {
		if strings.Contains(lower, k) {
			keywordHits++
		}
	}

	exclamationRisk := 0.0
	if strings.Contains(title, "!") {
		exclamationRisk = 0.15
	}

	capsWords := 0
	for _, word := range strings.Fields(title) {
		if len(word) > 4 && isUpperWord(word) {
			capsWords++
		}
	}
	capsRisk := float64(capsWords) * 0.05
	if capsRisk > 0.2 {
		capsRisk = 0.2
	}

	return clamp01(float64(keywordHits)*0.08 + exclamationRisk + capsRisk)
}

// isUpperWord 至少包含一个字母且所有字母都是大写
func isUpperWord(word string) bool {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// spreadIndex 传播指数：每小时热度增速经饱和变换压到 0-100
func (s *Scorer) spreadIndex(trend collector.Trend) float64 {
	score := trend.Metrics["score"]
	comments := trend.Metrics["comments"]
	engagement, ok := trend.Metrics["engagement"]
	if !ok {
		engagement = score + comments
	}

	hoursOld := s.Now().Sub(time.Unix(trend.CreatedAt, 0)).Hours()
	if hoursOld < 1 {
		hoursOld = 1
	}
	velocity := engagement / hoursOld
	spread := 100.0 * (1 - math.Exp(-velocity/120.0))
	return round2(clamp01(spread/100.0) * 100)
}

// Analyze 对单条趋势做完整打分：查证据、算风险、合成判定与理由
func (s *Scorer) Analyze(trend collector.Trend) Result {
	evidence := s.Verify(trend.Title)
	risk := languageRisk(trend.Title)
	spread := s.spreadIndex(trend)

	credibleBonus := float64(evidence.CredibleHits)
	if credibleBonus > 4 {
		credibleBonus = 4
	}
	// 基础先验约 82% 的怀疑度，被验证置信度与可信命中数强烈拉低，被煽动措辞抬高
	fakeProbability := clamp01(
		0.82 - evidence.Confidence*0.72 - credibleBonus*0.05 + risk*0.35,
	)
	credibilityScore := clamp01(1.0 - fakeProbability)

	reasons := make([]string, 0, 4)
	switch {
	case evidence.CredibleHits >= 3:
		reasons = append(reasons, "Multiple high-trust outlets reported similar claims.")
	case evidence.CredibleHits == 0:
		reasons = append(reasons, "No high-trust corroboration found in top results.")
	default:
		reasons = append(reasons, "Partial corroboration from trusted outlets.")
	}
	if evidence.SourceDiversity <= 1 {
		reasons = append(reasons, "Low source diversity increases uncertainty.")
	}
	if risk >= 0.2 {
		reasons = append(reasons, "Headline wording appears potentially sensational.")
	}
	if spread >= 70 {
		reasons = append(reasons, "High social velocity suggests rapid spread.")
	}

	var verdict string
	switch {
	case fakeProbability <= likelyRealThreshold:
		verdict = VerdictLikelyReal
	case fakeProbability <= needsVerifyThreshold:
		verdict = VerdictNeedsVerification
	default:
		verdict = VerdictLikelyMisleading
	}

	return Result{
		Trend:            trend,
		FakeProbability:  round2(fakeProbability * 100),
		SpreadIndex:      spread,
		CredibilityScore: round2(credibilityScore * 100),
		Verdict:          verdict,
		Reasons:          reasons,
		Evidence:         evidence,
	}
}
