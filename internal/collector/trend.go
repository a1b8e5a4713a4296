package collector

// Trend 统一各数据源采集后的基础结构，采集完成后不再修改
type Trend struct {
	ID        string             `json:"id"`
	Platform  string             `json:"platform"`
	Category  string             `json:"category"`
	Title     string             `json:"title"`
	URL       string             `json:"url"`
	Author    string             `json:"author"`
	CreatedAt int64              `json:"createdAt"`
	// Metrics 至少包含 score / comments / engagement；engagement 是唯一的排序键
	Metrics map[string]float64 `json:"metrics"`
	// RawData 保留源相关的附加信息（子版块、抓取模式等），不参与排序
	RawData map[string]any `json:"rawData,omitempty"`
}

// Engagement 返回排序用的热度值，缺失时按 0 处理
func (t Trend) Engagement() float64 {
	return t.Metrics["engagement"]
}

// Fetcher 抽象每一个数据源：按配额与分类抓取，失败时返回空列表而不是错误
type Fetcher interface {
	Name() string
	Fetch(limit int, category string) []Trend
}

// StatusFetcher 在 Fetcher 基础上额外汇报本次抓取走了哪条策略路径
type StatusFetcher interface {
	Fetcher
	FetchWithStatus(limit int, category string) ([]Trend, string)
}
