package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pfa-screening-api/internal/container"
	handlers "github.com/oksasatya/pfa-screening-api/internal/interface/http"
	"github.com/oksasatya/pfa-screening-api/internal/interface/middleware"
)

// UserModule serves GET /getUser/:userId.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/getUser/:userId", rl, m.Handler.GetUser)
}
