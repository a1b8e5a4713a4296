package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/Yashgade08/Hackathon-project/internal/config"
	"github.com/Yashgade08/Hackathon-project/internal/pipeline"
)

// 一个仅执行一次完整分析的命令行入口：适合手动验证流水线与各源健康状态
func main() {
	limit := flag.Int("limit", 20, "number of trends to analyze (5-40)")
	cat := flag.String("category", "all", "category filter")
	flag.Parse()

	cfg := config.Load()
	p := pipeline.New(cfg.XBearerToken, cfg.VerifyWorkers)

	payload := p.Run(*limit, *cat)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}
