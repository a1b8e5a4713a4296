package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Yashgade08/Hackathon-project/internal/pipeline"
	"github.com/Yashgade08/Hackathon-project/internal/storage"
)

// Scheduler 定时预热分析缓存：后台刷新热门视图，首个请求不用等完整流水线
type Scheduler struct {
	cron     *cron.Cron
	pipeline *pipeline.Pipeline
	cache    *storage.Cache

	// 需要保温的 (category, limit) 组合
	warmCategories []string
	warmLimit      int
}

func New(spec string, p *pipeline.Pipeline, cache *storage.Cache, warmCategories []string, warmLimit int) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:           c,
		pipeline:       p,
		cache:          cache,
		warmCategories: warmCategories,
		warmLimit:      warmLimit,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟执行首轮预热，避免与用户首次打开页面的请求争抢上游配额
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发预热
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start cache warm job...")

	for _, cat := range s.warmCategories {
		payload := s.pipeline.Run(s.warmLimit, cat)
		s.cache.Set(payload.SelectedCategory, s.warmLimit, payload)
		log.Printf("warmed %s: %d results, health=%v", cat, payload.AnalyzedCount, payload.SourceHealth)
	}

	log.Println("cache warm job done")
}
