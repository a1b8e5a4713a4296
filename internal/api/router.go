package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Yashgade08/Hackathon-project/internal/category"
	"github.com/Yashgade08/Hackathon-project/internal/pipeline"
	"github.com/Yashgade08/Hackathon-project/internal/storage"
)

type Server struct {
	pipeline *pipeline.Pipeline
	cache    *storage.Cache
}

func NewServer(p *pipeline.Pipeline, cache *storage.Cache) *Server {
	return &Server{pipeline: p, cache: cache}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/analyze", s.analyze)
		v1.GET("/categories", s.categories)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    category.Available(),
	})
}

// analyze 读穿缓存地执行一次抓取+分析；refresh=true 时强制绕过缓存
func (s *Server) analyze(c *gin.Context) {
	limit := 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		limit = v
	}
	limit = pipeline.ClampLimit(limit)
	cat := category.Normalize(c.DefaultQuery("category", "all"))
	forceRefresh := c.DefaultQuery("refresh", "false") == "true"

	if !forceRefresh {
		if payload, ok := s.cache.Get(cat, limit); ok {
			c.JSON(http.StatusOK, payload)
			return
		}
	}

	payload := s.pipeline.Run(limit, cat)
	s.cache.Set(cat, limit, payload)
	c.JSON(http.StatusOK, payload)
}
