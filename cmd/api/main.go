package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Yashgade08/Hackathon-project/internal/api"
	"github.com/Yashgade08/Hackathon-project/internal/config"
	"github.com/Yashgade08/Hackathon-project/internal/pipeline"
	"github.com/Yashgade08/Hackathon-project/internal/scheduler"
	"github.com/Yashgade08/Hackathon-project/internal/storage"
)

func main() {
	cfg := config.Load()

	p := pipeline.New(cfg.XBearerToken, cfg.VerifyWorkers)
	cache := storage.NewCache(cfg.RedisAddr, cfg.CacheTTL)

	// 定时预热 all 视图，首屏请求直接命中缓存
	s, err := scheduler.New(cfg.WarmCronSpec, p, cache, []string{"all"}, 20)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	r := gin.Default()
	apiServer := api.NewServer(p, cache)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
