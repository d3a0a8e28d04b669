package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pfa-screening-api/internal/container"
	handlers "github.com/oksasatya/pfa-screening-api/internal/interface/http"
	"github.com/oksasatya/pfa-screening-api/internal/interface/middleware"
)

type ResultModule struct {
	Handler *handlers.ResultHandler
}

func NewResultModule(h *handlers.ResultHandler) *ResultModule {
	return &ResultModule{Handler: h}
}

func (m *ResultModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	writeLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIP(), nil)
	readLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil)
	searchLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/createResult", writeLimiter, m.Handler.CreateResult)
	rg.GET("/getResults/:userId", readLimiter, m.Handler.GetResults)
	rg.GET("/getReport/:resultId", readLimiter, m.Handler.GetReport)
	rg.GET("/searchResults/:userId", searchLimiter, m.Handler.SearchResults)
}
