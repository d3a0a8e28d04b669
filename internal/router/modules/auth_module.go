package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pfa-screening-api/internal/container"
	handlers "github.com/oksasatya/pfa-screening-api/internal/interface/http"
	"github.com/oksasatya/pfa-screening-api/internal/interface/middleware"
)

// AuthModule serves the credential lifecycle:
// POST /register, GET /verify/:token, POST /login, GET /sendOTP/:email,
// POST /resetPassword and the bearer-protected GET /me.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    middleware.Authenticator
}

func NewAuthModule(h *handlers.AuthHandler, auth middleware.Authenticator) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	otpLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.GET("/verify/:token", verifyLimiter, m.Handler.VerifyEmail)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/sendOTP/:email", otpLimiter, m.Handler.SendOTP)
	rg.POST("/resetPassword", resetLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Auth))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/me", m.Handler.Me)
	}
}
